package datastructure

import (
	"image"
	"image/color"
)

// WalkabilityMask binary walkable/obstacle raster. immutable once built; cells outside the bounds are never walkable.
type WalkabilityMask struct {
	width  int
	height int
	cells  []bool // row-major, cells[y*width+x]
}

// NewWalkabilityMask copies cells (row-major, len == width*height).
func NewWalkabilityMask(width, height int, cells []bool) *WalkabilityMask {
	if len(cells) != width*height {
		panic("walkability mask: cells length does not match width*height")
	}
	cp := make([]bool, len(cells))
	copy(cp, cells)
	return &WalkabilityMask{width: width, height: height, cells: cp}
}

// NewWalkabilityMaskFromRows builds a mask from rows[y][x].
func NewWalkabilityMaskFromRows(rows [][]bool) *WalkabilityMask {
	height := len(rows)
	width := 0
	if height > 0 {
		width = len(rows[0])
	}
	cells := make([]bool, 0, width*height)
	for _, row := range rows {
		if len(row) != width {
			panic("walkability mask: ragged rows")
		}
		cells = append(cells, row...)
	}
	return &WalkabilityMask{width: width, height: height, cells: cells}
}

// NewWalkabilityMaskFromImage treats every non-black pixel as walkable.
func NewWalkabilityMaskFromImage(img image.Image) *WalkabilityMask {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cells := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			cells[y*w+x] = g.Y > 0
		}
	}
	return &WalkabilityMask{width: w, height: h, cells: cells}
}

func (m *WalkabilityMask) GetWidth() int {
	return m.width
}

func (m *WalkabilityMask) GetHeight() int {
	return m.height
}

func (m *WalkabilityMask) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

func (m *WalkabilityMask) IsWalkable(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.cells[y*m.width+x]
}

func (m *WalkabilityMask) IsWalkableCoord(c Coordinate) bool {
	return m.IsWalkable(c.X, c.Y)
}

func (m *WalkabilityMask) WalkableCount() int {
	n := 0
	for _, c := range m.cells {
		if c {
			n++
		}
	}
	return n
}

// ToGray renders walkable as 255 and obstacle as 0.
func (m *WalkabilityMask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for i, c := range m.cells {
		if c {
			img.Pix[(i/m.width)*img.Stride+i%m.width] = 255
		}
	}
	return img
}

// Equal reports whether both masks have the same size and cells.
func (m *WalkabilityMask) Equal(o *WalkabilityMask) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
