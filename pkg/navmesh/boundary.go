package navmesh

import (
	"github.com/lintang-b-s/storenav/pkg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/util"
)

// edgePoint walkable cell with the largest distance to an obstacle inside the band of max(1, dim/20)
// cells along edge. ok=false when the band has no walkable cell.
func edgePoint(dist *raster, mask *da.WalkabilityMask, edge pkg.Edge) (da.Coordinate, bool) {
	w, h := mask.GetWidth(), mask.GetHeight()
	marginY := util.MaxInt(1, h/pkg.EDGE_MARGIN_DIV)
	marginX := util.MaxInt(1, w/pkg.EDGE_MARGIN_DIV)

	best := da.Coordinate{}
	bestD := -1.0
	visit := func(x, y int) {
		if !mask.IsWalkable(x, y) {
			return
		}
		if d := dist.at(x, y); d > bestD {
			bestD = d
			best = da.NewCoordinate(x, y)
		}
	}

	switch edge {
	case pkg.TOP, pkg.BOTTOM:
		y0, y1 := 0, util.MinInt(marginY, h)
		if edge == pkg.BOTTOM {
			y0, y1 = util.MaxInt(0, h-marginY), h
		}
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				visit(x, y)
			}
		}
	case pkg.LEFT, pkg.RIGHT:
		x0, x1 := 0, util.MinInt(marginX, w)
		if edge == pkg.RIGHT {
			x0, x1 = util.MaxInt(0, w-marginX), w
		}
		for x := x0; x < x1; x++ {
			for y := 0; y < h; y++ {
				visit(x, y)
			}
		}
	default:
		return da.Coordinate{}, false
	}
	return best, bestD >= 0
}

// nudge moves c by offset cells along edge (x for top/bottom, y for left/right).
func nudge(c da.Coordinate, edge pkg.Edge, offset int) da.Coordinate {
	if edge == pkg.LEFT || edge == pkg.RIGHT {
		return c.Add(0, offset)
	}
	return c.Add(offset, 0)
}

// nearestWalkable returns (x,y) clamped into the mask when that cell is walkable. otherwise it searches squares
// of growing radius 1..SNAP_MAX_RADIUS-1 around (x,y) and, at the first radius containing walkable cells,
// returns the one farthest from obstacles. ok=false when nothing walkable is found.
func nearestWalkable(mask *da.WalkabilityMask, dist *raster, x, y int) (da.Coordinate, bool) {
	w, h := mask.GetWidth(), mask.GetHeight()
	cx, cy := util.ClampInt(x, 0, w-1), util.ClampInt(y, 0, h-1)
	if mask.IsWalkable(cx, cy) {
		return da.NewCoordinate(cx, cy), true
	}

	best := da.Coordinate{}
	bestD := -1.0
	for r := 1; r < pkg.SNAP_MAX_RADIUS; r++ {
		for ny := util.MaxInt(0, y-r); ny < util.MinInt(h, y+r+1); ny++ {
			for nx := util.MaxInt(0, x-r); nx < util.MinInt(w, x+r+1); nx++ {
				if !mask.IsWalkable(nx, ny) {
					continue
				}
				if d := dist.at(nx, ny); d > bestD {
					bestD = d
					best = da.NewCoordinate(nx, ny)
				}
			}
		}
		if bestD >= 0 {
			return best, true
		}
	}
	return da.Coordinate{}, false
}
