package routing

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"testing"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pointOracle euclidean distances between labelled points.
type pointOracle struct {
	points map[da.StopLabel][2]float64
	calls  int
}

func (po *pointOracle) Distance(a, b da.StopLabel) (float64, error) {
	po.calls++
	pa, ok := po.points[a]
	if !ok {
		return math.Inf(1), ErrUnknownStop
	}
	pb, ok := po.points[b]
	if !ok {
		return math.Inf(1), ErrUnknownStop
	}
	return math.Hypot(pa[0]-pb[0], pa[1]-pb[1]), nil
}

func sortedCopy(labels []da.StopLabel) []da.StopLabel {
	out := make([]da.StopLabel, len(labels))
	copy(out, labels)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestRouteSolverPermutation(t *testing.T) {
	oracle := &pointOracle{points: map[da.StopLabel][2]float64{
		"Entrance": {0, 0}, "1": {5, 1}, "2": {1, 4}, "3": {7, 7}, "Dairy": {2, 9},
	}}
	testCases := []struct {
		name  string
		stops []da.StopLabel
		start da.StopLabel
		want  []da.StopLabel
	}{
		{
			name:  "start absent is inserted",
			stops: []da.StopLabel{"3", "1", "Dairy", "2"},
			start: "Entrance",
			want:  []da.StopLabel{"1", "2", "3", "Dairy", "Entrance"},
		},
		{
			name:  "start present and duplicates dropped",
			stops: []da.StopLabel{"2", "Entrance", "2", "1", "1"},
			start: "Entrance",
			want:  []da.StopLabel{"1", "2", "Entrance"},
		},
		{
			name:  "start only",
			stops: []da.StopLabel{"Entrance"},
			start: "Entrance",
			want:  []da.StopLabel{"Entrance"},
		},
		{
			name:  "empty stops",
			stops: nil,
			start: "3",
			want:  []da.StopLabel{"3"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRouteSolver(oracle, 1, zap.NewNop())
			route, err := rs.Solve(tt.stops, tt.start)
			require.NoError(t, err)
			require.NotEmpty(t, route)
			assert.Equal(t, tt.start, route[0])
			assert.Equal(t, tt.want, sortedCopy(route))
		})
	}
}

func TestNearestNeighborTiesKeepInputOrder(t *testing.T) {
	oracle := &pointOracle{points: map[da.StopLabel][2]float64{
		"S": {0, 0}, "east": {1, 0}, "west": {-1, 0}, "north": {0, 1},
	}}
	rs := NewRouteSolver(oracle, 0, zap.NewNop())

	route, err := rs.NearestNeighbor([]da.StopLabel{"west", "north", "east"}, "S")
	require.NoError(t, err)
	assert.Equal(t, da.StopLabel("west"), route[1])

	route, err = rs.NearestNeighbor([]da.StopLabel{"north", "east", "west"}, "S")
	require.NoError(t, err)
	assert.Equal(t, da.StopLabel("north"), route[1])
}

func TestTwoOptSweepUncrosses(t *testing.T) {
	oracle := &pointOracle{points: map[da.StopLabel][2]float64{
		"S": {0, 0}, "A": {1, 0}, "B": {2, 0}, "C": {3, 0},
	}}
	rs := NewRouteSolver(oracle, 1, zap.NewNop())

	route := Route{"S", "B", "A", "C"}
	improved, err := rs.TwoOptSweep(route)
	require.NoError(t, err)
	assert.True(t, improved)
	assert.Equal(t, Route{"S", "A", "B", "C"}, route)

	improved, err = rs.TwoOptSweep(route)
	require.NoError(t, err)
	assert.False(t, improved)

	short := Route{"S", "B", "A"}
	improved, err = rs.TwoOptSweep(short)
	require.NoError(t, err)
	assert.False(t, improved)
	assert.Equal(t, Route{"S", "B", "A"}, short)
}

func TestTwoOptNeverWorseThanNearestNeighbor(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		oracle := &pointOracle{points: map[da.StopLabel][2]float64{"Entrance": {0, 0}}}
		stops := make([]da.StopLabel, 0, 10)
		for i := 0; i < 4+rng.Intn(8); i++ {
			l := da.StopLabel(strconv.Itoa(i + 1))
			oracle.points[l] = [2]float64{rng.Float64() * 100, rng.Float64() * 100}
			stops = append(stops, l)
		}

		for _, passes := range []int{1, 3} {
			rs := NewRouteSolver(oracle, passes, zap.NewNop())
			nn, err := rs.NearestNeighbor(stops, "Entrance")
			require.NoError(t, err)
			nnCost, err := rs.RouteCost(nn)
			require.NoError(t, err)

			route, err := rs.Solve(stops, "Entrance")
			require.NoError(t, err)
			cost, err := rs.RouteCost(route)
			require.NoError(t, err)

			assert.LessOrEqual(t, cost, nnCost+1e-9, "trial %d passes %d", trial, passes)
			assert.Equal(t, da.StopLabel("Entrance"), route[0])

			again, err := rs.Solve(stops, "Entrance")
			require.NoError(t, err)
			assert.Equal(t, route, again, "trial %d: solve must be deterministic", trial)
		}
	}
}

func TestRouteSolverUnreachableStop(t *testing.T) {
	m, st := wallStops(t)
	dc, err := NewDistanceCache(st, NewGridAstar(m), nil, zap.NewNop())
	require.NoError(t, err)
	rs := NewRouteSolver(dc, 1, zap.NewNop())

	route, err := rs.Solve([]da.StopLabel{"C", "B"}, "A")
	require.NoError(t, err)
	assert.Equal(t, Route{"A", "B", "C"}, route)

	cost, err := rs.RouteCost(route)
	require.NoError(t, err)
	assert.True(t, math.IsInf(cost, 1))
}

func TestRouteSolverUnknownStop(t *testing.T) {
	m, st := wallStops(t)
	dc, err := NewDistanceCache(st, NewGridAstar(m), nil, zap.NewNop())
	require.NoError(t, err)
	rs := NewRouteSolver(dc, 1, zap.NewNop())

	_, err = rs.Solve([]da.StopLabel{"B", "Bakery"}, "A")
	assert.ErrorIs(t, err, ErrUnknownStop)
}

func TestRouteSolverZeroPassesIsNearestNeighbor(t *testing.T) {
	oracle := &pointOracle{points: map[da.StopLabel][2]float64{
		"S": {0, 0}, "1": {10, 0}, "2": {-1, 0}, "3": {11, 0}, "4": {-12, 0},
	}}
	stops := []da.StopLabel{"1", "2", "3", "4"}

	rs := NewRouteSolver(oracle, 0, zap.NewNop())
	nn, err := rs.NearestNeighbor(stops, "S")
	require.NoError(t, err)
	route, err := rs.Solve(stops, "S")
	require.NoError(t, err)
	assert.Equal(t, nn, route)
	assert.Equal(t, 0, rs.GetTwoOptPasses())
}

func TestSolveOnOpenFloor(t *testing.T) {
	st, err := da.NewStopTable([]da.StopEntry{
		da.NewStopEntry("A", da.NewCoordinate(0, 0)),
		da.NewStopEntry("B", da.NewCoordinate(9, 0)),
		da.NewStopEntry("C", da.NewCoordinate(0, 9)),
	}, 10, 10)
	require.NoError(t, err)

	dc, err := NewDistanceCache(st, NewGridAstar(da.NewWalkabilityMaskFromRows(openMask(10, 10))), nil, zap.NewNop())
	require.NoError(t, err)

	testCases := []struct {
		name   string
		passes int
	}{
		{"nearest neighbour only", 0},
		{"single 2-opt sweep", 1},
		{"several 2-opt sweeps", 5},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := dc.Distance("A", "B")
			require.NoError(t, err)
			assert.InDelta(t, 9.0, ab, 1e-9)
			ac, err := dc.Distance("A", "C")
			require.NoError(t, err)
			assert.InDelta(t, 9.0, ac, 1e-9)

			rs := NewRouteSolver(dc, tt.passes, zap.NewNop())
			route, err := rs.Solve([]da.StopLabel{"A", "B", "C"}, "A")
			require.NoError(t, err)
			assert.Contains(t, []Route{{"A", "B", "C"}, {"A", "C", "B"}}, route)

			cost, err := rs.RouteCost(route)
			require.NoError(t, err)
			assert.InDelta(t, 9+math.Sqrt(162), cost, 1e-9)
		})
	}
}
