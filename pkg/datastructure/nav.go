package datastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

type StopLabel string

// Coordinate is a pixel cell of the floor plan. x grows to the right, y grows downwards.
type Coordinate struct {
	X int
	Y int
}

func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// NewCoordinateF rounds a sub-pixel position to the nearest cell.
func NewCoordinateF(x, y float64) Coordinate {
	return Coordinate{X: int(math.Round(x)), Y: int(math.Round(y))}
}

func (c Coordinate) GetX() int {
	return c.X
}

func (c Coordinate) GetY() int {
	return c.Y
}

func (c Coordinate) Add(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// EuclideanDistance straight line distance in pixels.
func (c Coordinate) EuclideanDistance(o Coordinate) float64 {
	return math.Hypot(float64(c.X-o.X), float64(c.Y-o.Y))
}

// MarshalJSON encodes as [x, y].
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("coordinate must have exactly 2 elements, got %d", len(xy))
	}
	c.X, c.Y = xy[0], xy[1]
	return nil
}

type StopEntry struct {
	Label StopLabel
	Coord Coordinate
}

func NewStopEntry(label StopLabel, coord Coordinate) StopEntry {
	return StopEntry{Label: label, Coord: coord}
}

var (
	ErrDuplicateStop  = errors.New("duplicate stop label")
	ErrStopOutOfBound = errors.New("stop coordinate outside mask bounds")
	ErrEmptyStopLabel = errors.New("empty stop label")
)

// StopTable maps stop labels to cells of the walkability mask. read-only after NewStopTable.
type StopTable struct {
	stops  map[StopLabel]Coordinate
	order  []StopLabel
	width  int
	height int
}

// NewStopTable validates that labels are unique and non-empty and that every coordinate lies inside width x height.
func NewStopTable(entries []StopEntry, width, height int) (*StopTable, error) {
	st := &StopTable{
		stops:  make(map[StopLabel]Coordinate, len(entries)),
		order:  make([]StopLabel, 0, len(entries)),
		width:  width,
		height: height,
	}
	for _, e := range entries {
		if e.Label == "" {
			return nil, ErrEmptyStopLabel
		}
		if _, dup := st.stops[e.Label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStop, e.Label)
		}
		if e.Coord.X < 0 || e.Coord.Y < 0 || e.Coord.X >= width || e.Coord.Y >= height {
			return nil, fmt.Errorf("%w: %q at (%d,%d), mask is %dx%d", ErrStopOutOfBound, e.Label,
				e.Coord.X, e.Coord.Y, width, height)
		}
		st.stops[e.Label] = e.Coord
		st.order = append(st.order, e.Label)
	}
	return st, nil
}

func (st *StopTable) Get(label StopLabel) (Coordinate, bool) {
	c, ok := st.stops[label]
	return c, ok
}

func (st *StopTable) Contains(label StopLabel) bool {
	_, ok := st.stops[label]
	return ok
}

func (st *StopTable) Len() int {
	return len(st.stops)
}

// Labels in insertion order.
func (st *StopTable) Labels() []StopLabel {
	labels := make([]StopLabel, len(st.order))
	copy(labels, st.order)
	return labels
}

func (st *StopTable) SortedLabels() []StopLabel {
	labels := st.Labels()
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func (st *StopTable) Entries() []StopEntry {
	entries := make([]StopEntry, 0, len(st.order))
	for _, l := range st.order {
		entries = append(entries, NewStopEntry(l, st.stops[l]))
	}
	return entries
}

func (st *StopTable) GetWidth() int {
	return st.width
}

func (st *StopTable) GetHeight() int {
	return st.height
}
