package routing

import (
	"math"

	"github.com/lintang-b-s/storenav/pkg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/util"
)

type cellInfo struct {
	g      float64
	parent int
	node   *da.PriorityQueueNode[int]
}

// GridAstar 8-connected A* over a walkability mask. axis-aligned steps cost 1, diagonal steps sqrt(2),
// heuristic is the euclidean distance to the goal (admissible & consistent for this metric).
// queries keep all search state on the stack so one GridAstar can serve concurrent callers.
type GridAstar struct {
	mask *da.WalkabilityMask
}

func NewGridAstar(mask *da.WalkabilityMask) *GridAstar {
	return &GridAstar{mask: mask}
}

func (ga *GridAstar) GetMask() *da.WalkabilityMask {
	return ga.mask
}

// ShortestPathF rounds both positions to the nearest cell before searching.
func (ga *GridAstar) ShortestPathF(sx, sy, tx, ty float64) (float64, []da.Coordinate) {
	return ga.ShortestPath(da.NewCoordinateF(sx, sy), da.NewCoordinateF(tx, ty))
}

// ShortestPath returns the cost and cells of a minimum cost path from s to t, both inclusive.
// s and t are assumed walkable. if t cannot be reached the cost is +Inf and the path is nil.
func (ga *GridAstar) ShortestPath(s, t da.Coordinate) (float64, []da.Coordinate) {
	cost, path, _ := ga.ShortestPathWithStats(s, t)
	return cost, path
}

// ShortestPathWithStats is ShortestPath that also reports the number of settled cells.
func (ga *GridAstar) ShortestPathWithStats(s, t da.Coordinate) (float64, []da.Coordinate, int) {
	numSettledNodes := 0
	if !ga.mask.InBounds(s.X, s.Y) || !ga.mask.InBounds(t.X, t.Y) {
		return pkg.INF_WEIGHT, nil, numSettledNodes
	}

	w := ga.mask.GetWidth()
	sId := s.Y*w + s.X
	tId := t.Y*w + t.X

	pq := da.NewFourAryHeap[int]()
	info := make(map[int]*cellInfo)

	sNode := da.NewPriorityQueueNodeWithSecondary(s.EuclideanDistance(t), 0, sId)
	pq.Insert(sNode)
	info[sId] = &cellInfo{g: 0, parent: -1, node: sNode}

	for !pq.IsEmpty() {
		uNode, _ := pq.ExtractMin()
		uId := uNode.GetItem()
		numSettledNodes++

		if uId == tId {
			return info[tId].g, ga.reconstructPath(info, tId), numSettledNodes
		}

		ux, uy := uId%w, uId/w
		uG := info[uId].g
		for k := 0; k < 8; k++ {
			vx, vy := ux+neighborDx[k], uy+neighborDy[k]
			if !ga.mask.IsWalkable(vx, vy) {
				continue
			}

			step := 1.0
			if neighborDx[k] != 0 && neighborDy[k] != 0 {
				step = pkg.SQRT2
			}
			newG := uG + step

			vId := vy*w + vx
			vInfo, visited := info[vId]
			if visited && newG >= vInfo.g {
				// not strictly better
				continue
			}

			f := newG + math.Hypot(float64(vx-t.X), float64(vy-t.Y))
			if visited && vInfo.node.GetPos() >= 0 {
				vInfo.g = newG
				vInfo.parent = uId
				pq.DecreaseKey(vInfo.node, f, newG)
				continue
			}

			vNode := da.NewPriorityQueueNodeWithSecondary(f, newG, vId)
			pq.Insert(vNode)
			info[vId] = &cellInfo{g: newG, parent: uId, node: vNode}
		}
	}

	return pkg.INF_WEIGHT, nil, numSettledNodes
}

func (ga *GridAstar) reconstructPath(info map[int]*cellInfo, tId int) []da.Coordinate {
	w := ga.mask.GetWidth()
	path := make([]da.Coordinate, 0, 64)
	for cur := tId; cur != -1; cur = info[cur].parent {
		path = append(path, da.NewCoordinate(cur%w, cur/w))
	}
	util.ReverseInPlace(path)
	return path
}

// PathCost sums step costs along path. +Inf for an empty path.
func PathCost(path []da.Coordinate) float64 {
	if len(path) == 0 {
		return pkg.INF_WEIGHT
	}
	cost := 0.0
	for i := 1; i < len(path); i++ {
		dx := util.Abs(path[i].X - path[i-1].X)
		dy := util.Abs(path[i].Y - path[i-1].Y)
		if dx == 1 && dy == 1 {
			cost += pkg.SQRT2
		} else {
			cost += float64(dx + dy)
		}
	}
	return cost
}
