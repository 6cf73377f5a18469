package spatialindex

import (
	"testing"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testIndex(t *testing.T) *Rtree {
	st, err := da.NewStopTable([]da.StopEntry{
		da.NewStopEntry("Entrance", da.NewCoordinate(50, 95)),
		da.NewStopEntry("1", da.NewCoordinate(10, 40)),
		da.NewStopEntry("2", da.NewCoordinate(30, 40)),
		da.NewStopEntry("3", da.NewCoordinate(50, 40)),
		da.NewStopEntry("Frozen", da.NewCoordinate(50, 2)),
	}, 100, 100)
	require.NoError(t, err)

	rt := NewRtree()
	rt.Build(st, zap.NewNop())
	return rt
}

func TestRtreeNearest(t *testing.T) {
	rt := testIndex(t)
	require.Equal(t, 5, rt.Len())

	testCases := []struct {
		name string
		x, y float64
		k    int
		want []da.StopLabel
	}{
		{"single nearest", 28, 41, 1, []da.StopLabel{"2"}},
		{"three nearest in distance order", 12, 42, 3, []da.StopLabel{"1", "2", "3"}},
		{"k larger than the index", 50, 90, 10, []da.StopLabel{"Entrance", "3", "2", "1", "Frozen"}},
		{"k zero", 0, 0, 0, []da.StopLabel{}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			hits := rt.Nearest(tt.x, tt.y, tt.k)
			got := make([]da.StopLabel, len(hits))
			for i, h := range hits {
				got[i] = h.Label
			}
			assert.Equal(t, tt.want, got)
		})
	}

	hit := rt.Nearest(53, 44, 1)[0]
	assert.Equal(t, da.NewCoordinate(50, 40), hit.Coord)
	assert.InDelta(t, 5.0, hit.Dist, 1e-9)
}

func TestRtreeSearchWithinRadius(t *testing.T) {
	rt := testIndex(t)

	hits := rt.SearchWithinRadius(30, 40, 20, 0)
	labels := make(map[da.StopLabel]bool)
	for _, h := range hits {
		labels[h.Label] = true
		assert.LessOrEqual(t, h.Dist, 20.0)
	}
	assert.Equal(t, map[da.StopLabel]bool{"1": true, "2": true, "3": true}, labels)

	assert.Len(t, rt.SearchWithinRadius(30, 40, 20, 2), 2)
	assert.Empty(t, rt.SearchWithinRadius(90, 90, 5, 0))
}
