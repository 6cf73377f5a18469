package spatialindex

import (
	"math"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree point index over stop coordinates (pixel space).
type Rtree struct {
	tr *rtree.RTreeG[da.StopLabel]
}

// StopHit stop returned by a spatial query, with its euclidean distance (pixels) to the query point.
type StopHit struct {
	Label da.StopLabel
	Coord da.Coordinate
	Dist  float64
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[da.StopLabel]
	return &Rtree{
		tr: &tr,
	}
}

// Build. insert every stop of the table as a degenerate box.
func (rt *Rtree) Build(stops *da.StopTable, log *zap.Logger) {
	log.Info("Building R-tree spatial index over stops...", zap.Int("stops", stops.Len()))
	for _, e := range stops.Entries() {
		p := point(e.Coord)
		rt.tr.Insert(p, p, e.Label)
	}
	log.Info("R-tree spatial index built.")
}

func (rt *Rtree) Len() int {
	return rt.tr.Len()
}

// Nearest k stops closest to (x, y), nearest first. ties keep the tree's traversal order.
func (rt *Rtree) Nearest(x, y float64, k int) []StopHit {
	if k <= 0 {
		return []StopHit{}
	}
	results := make([]StopHit, 0, k)
	rt.tr.Nearby(
		func(min, max [2]float64, data da.StopLabel, item bool) float64 {
			return boxDist(x, y, min, max)
		},
		func(min, max [2]float64, data da.StopLabel, dist float64) bool {
			results = append(results, StopHit{
				Label: data,
				Coord: da.NewCoordinate(int(min[0]), int(min[1])),
				Dist:  math.Sqrt(dist),
			})
			return len(results) < k
		})
	return results
}

// SearchWithinRadius stops within radius pixels from (x, y), at most limit of them.
func (rt *Rtree) SearchWithinRadius(x, y, radius float64, limit int) []StopHit {
	results := make([]StopHit, 0, 10)
	rt.tr.Search([2]float64{x - radius, y - radius}, [2]float64{x + radius, y + radius},
		func(min, max [2]float64, data da.StopLabel) bool {
			d := math.Hypot(min[0]-x, min[1]-y)
			if d > radius {
				return true
			}
			results = append(results, StopHit{Label: data, Coord: da.NewCoordinate(int(min[0]), int(min[1])), Dist: d})
			return limit <= 0 || len(results) < limit
		})
	return results
}

func point(c da.Coordinate) [2]float64 {
	return [2]float64{float64(c.GetX()), float64(c.GetY())}
}

// boxDist squared distance from (x, y) to the box [min, max].
func boxDist(x, y float64, min, max [2]float64) float64 {
	dx := math.Max(0, math.Max(min[0]-x, x-max[0]))
	dy := math.Max(0, math.Max(min[1]-y, y-max[1]))
	return dx*dx + dy*dy
}
