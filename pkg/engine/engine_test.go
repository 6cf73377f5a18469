package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testFloor 20x20 floor: a wall at x=10 open only below y=15, and Frozen boxed in at the top right corner.
func testFloor(t *testing.T) (*da.WalkabilityMask, *da.StopTable) {
	rows := make([][]bool, 20)
	for y := range rows {
		rows[y] = make([]bool, 20)
		for x := range rows[y] {
			rows[y][x] = true
		}
	}
	for y := 0; y < 15; y++ {
		rows[y][10] = false
	}
	for x := 15; x < 20; x++ {
		rows[4][x] = false
	}
	for y := 0; y < 4; y++ {
		rows[y][15] = false
	}
	m := da.NewWalkabilityMaskFromRows(rows)

	st, err := da.NewStopTable([]da.StopEntry{
		da.NewStopEntry("Entrance", da.NewCoordinate(1, 18)),
		da.NewStopEntry("1", da.NewCoordinate(5, 5)),
		da.NewStopEntry("2", da.NewCoordinate(13, 8)),
		da.NewStopEntry("Dairy", da.NewCoordinate(18, 18)),
		da.NewStopEntry("Frozen", da.NewCoordinate(18, 1)),
	}, 20, 20)
	require.NoError(t, err)
	return m, st
}

func testEngine(t *testing.T) *Engine {
	m, st := testFloor(t)
	e, err := NewEngineDirect(m, st, nil, nil, 1, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestEngineSolveAndLegs(t *testing.T) {
	e := testEngine(t)

	route, err := e.SolveRoute([]da.StopLabel{"Dairy", "1", "2"}, "Entrance")
	require.NoError(t, err)
	require.Len(t, route, 4)
	assert.Equal(t, da.StopLabel("Entrance"), route[0])

	total, err := e.RouteCost(route)
	require.NoError(t, err)

	legs, err := e.RouteLegs(route)
	require.NoError(t, err)
	require.Len(t, legs, 3)

	sum := 0.0
	for _, l := range legs {
		require.True(t, l.Reachable)
		sum += l.Cost
		from, _ := e.GetStops().Get(l.From)
		to, _ := e.GetStops().Get(l.To)
		require.NotEmpty(t, l.Path)
		assert.Equal(t, from, l.Path[0])
		assert.Equal(t, to, l.Path[len(l.Path)-1])
		assert.InDelta(t, l.Cost, routing.PathCost(l.Path), 1e-9)
	}
	assert.InDelta(t, total, sum, 1e-9)
}

func TestEngineUnreachableLeg(t *testing.T) {
	e := testEngine(t)

	legs, err := e.RouteLegs(routing.Route{"Entrance", "Frozen"})
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.False(t, legs[0].Reachable)
	assert.Empty(t, legs[0].Path)

	_, _, err = e.ShortestPath("Entrance", "Bakery")
	assert.ErrorIs(t, err, routing.ErrUnknownStop)
}

func TestEngineNearestStopsAndPrewarm(t *testing.T) {
	e := testEngine(t)

	hits := e.NearestStops(6, 6, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, da.StopLabel("1"), hits[0].Label)
	assert.Equal(t, da.StopLabel("2"), hits[1].Label)

	n, err := e.Prewarm(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, e.GetCache().Len())
}

func TestEngineRender(t *testing.T) {
	e := testEngine(t)
	img, err := e.RenderRoute(routing.Route{"Entrance", "1"})
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestNewEngineFromFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.EngineConfig{
		NavPath:       filepath.Join(dir, "nav.json"),
		MaskPath:      filepath.Join(dir, "navmask.png"),
		DistCachePath: filepath.Join(dir, "dist_cache.json"),
		KeywordsPath:  filepath.Join(dir, "aisles.keywords.json"),
		TwoOptPasses:  1,
	}

	_, err := NewEngine(cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrNavmeshMissing)

	m, st := testFloor(t)
	require.NoError(t, m.WriteMask(cfg.MaskPath))
	nf := da.NewNavFile(filepath.Join(dir, "missing.png"), cfg.MaskPath, st, da.NavMeta{Notes: "test", Version: 1})
	require.NoError(t, nf.WriteNavFile(cfg.NavPath))
	require.NoError(t, os.WriteFile(cfg.KeywordsPath, []byte(`{"1":["bread"],"Dairy":["milk"]}`), 0o644))

	e, err := NewEngine(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, st.Len(), e.GetStops().Len())
	assert.True(t, e.GetMask().Equal(m))
	require.NotNil(t, e.GetResolver())
	assert.Equal(t, []da.StopLabel{"Dairy"}, e.GetResolver().Resolve([]string{"Milk"}))

	d, err := e.ShortestDistance("1", "2")
	require.NoError(t, err)
	assert.Greater(t, d, 8.0)
	assert.FileExists(t, cfg.DistCachePath)
}
