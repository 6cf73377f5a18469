package routing

import (
	"github.com/lintang-b-s/storenav/pkg"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

// Route ordered stop labels, start label first.
type Route []da.StopLabel

// RouteSolver orders a stop set into a short walk: greedy nearest neighbour, then 2-opt sweeps.
// unreachable pairs come back from the oracle as +Inf and are avoided without special casing.
type RouteSolver struct {
	oracle       DistanceOracle
	twoOptPasses int
	log          *zap.Logger
}

// NewRouteSolver. twoOptPasses is the maximum number of 2-opt sweeps (1 = a single sweep, 0 = nearest neighbour only).
func NewRouteSolver(oracle DistanceOracle, twoOptPasses int, log *zap.Logger) *RouteSolver {
	if twoOptPasses < 0 {
		twoOptPasses = 0
	}
	return &RouteSolver{oracle: oracle, twoOptPasses: twoOptPasses, log: log}
}

func (rs *RouteSolver) GetTwoOptPasses() int {
	return rs.twoOptPasses
}

// Solve returns a permutation of the distinct stops (plus start when absent) beginning at start.
func (rs *RouteSolver) Solve(stops []da.StopLabel, start da.StopLabel) (Route, error) {
	route, err := rs.NearestNeighbor(stops, start)
	if err != nil {
		return nil, err
	}

	for pass := 0; pass < rs.twoOptPasses; pass++ {
		improved, err := rs.TwoOptSweep(route)
		if err != nil {
			return nil, err
		}
		if !improved {
			break
		}
	}

	rs.log.Debug("route solved", zap.Int("stops", len(route)), zap.Int("two_opt_passes", rs.twoOptPasses))
	return route, nil
}

// NearestNeighbor greedy construction. remaining stops are scanned in input order and only a strictly
// smaller distance replaces the current best, so ties keep the earliest stop.
func (rs *RouteSolver) NearestNeighbor(stops []da.StopLabel, start da.StopLabel) (Route, error) {
	stops = removeDuplicates(stops)

	remaining := make([]da.StopLabel, 0, len(stops))
	for _, s := range stops {
		if s != start {
			remaining = append(remaining, s)
		}
	}

	route := make(Route, 0, len(remaining)+1)
	route = append(route, start)

	for len(remaining) > 0 {
		last := route[len(route)-1]
		bestIdx := -1
		bestDist := pkg.INF_WEIGHT
		for i, cand := range remaining {
			d, err := rs.oracle.Distance(last, cand)
			if err != nil {
				return nil, err
			}
			if bestIdx == -1 || d < bestDist {
				bestIdx = i
				bestDist = d
			}
		}
		route = append(route, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return route, nil
}

// TwoOptSweep makes one pass over i in [1, n-3], j in [i+1, n-2] and reverses route[i..j] in place whenever
// d(a,b)+d(c,d) > d(a,c)+d(b,d) with a=route[i-1], b=route[i], c=route[j], d=route[j+1]. the scan continues on the
// modified route. position 0 never moves. reports whether any reversal was applied.
func (rs *RouteSolver) TwoOptSweep(route Route) (bool, error) {
	improved := false
	n := len(route)
	for i := 1; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			a, b, c, d := route[i-1], route[i], route[j], route[j+1]

			ab, err := rs.oracle.Distance(a, b)
			if err != nil {
				return improved, err
			}
			cd, err := rs.oracle.Distance(c, d)
			if err != nil {
				return improved, err
			}
			ac, err := rs.oracle.Distance(a, c)
			if err != nil {
				return improved, err
			}
			bd, err := rs.oracle.Distance(b, d)
			if err != nil {
				return improved, err
			}

			if ab+cd > ac+bd {
				util.ReverseInPlace(route[i : j+1])
				improved = true
			}
		}
	}
	return improved, nil
}

// RouteCost sums consecutive leg distances. +Inf when any leg is unreachable.
func (rs *RouteSolver) RouteCost(route Route) (float64, error) {
	return RouteCost(rs.oracle, route)
}

func RouteCost(oracle DistanceOracle, route Route) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		d, err := oracle.Distance(route[i], route[i+1])
		if err != nil {
			return pkg.INF_WEIGHT, err
		}
		total += d
	}
	return total, nil
}
