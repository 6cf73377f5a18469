package navmesh

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// shelfImage white 300x240 floor plan with three black shelves 6 px wide.
func shelfImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 300, 240))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, x0 := range []int{60, 140, 220} {
		for y := 40; y < 200; y++ {
			for x := x0; x < x0+6; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func testBuildConfig(t *testing.T) config.NavmeshConfig {
	dir := t.TempDir()
	cfg := config.DefaultNavmeshConfig()
	cfg.StoreImagePath = filepath.Join(dir, "store_map.png")
	cfg.MaskPath = filepath.Join(dir, "navmask.png")
	cfg.NavPath = filepath.Join(dir, "nav.json")
	cfg.KeywordsPath = filepath.Join(dir, "aisles.keywords.json")
	cfg.LayoutPath = filepath.Join(dir, "layout.json")

	require.NoError(t, da.WritePNG(cfg.StoreImagePath, shelfImage()))
	require.NoError(t, os.WriteFile(cfg.KeywordsPath,
		[]byte(`{"1":["bread"],"2":["cereal"],"3":["pasta"],"Dairy":["milk"]}`), 0o644))
	return cfg
}

func TestBuildMaskShelves(t *testing.T) {
	mask, err := BuildMask(shelfImage(), config.DefaultNavmeshConfig())
	require.NoError(t, err)

	testCases := []struct {
		x, y     int
		walkable bool
	}{
		{63, 120, false},
		{143, 120, false},
		{223, 60, false},
		{30, 120, true},
		{100, 120, true},
		{150, 10, true},
		{299, 239, true},
	}
	for _, tt := range testCases {
		assert.Equal(t, tt.walkable, mask.IsWalkable(tt.x, tt.y), "(%d,%d)", tt.x, tt.y)
	}
}

func TestBuilderBuild(t *testing.T) {
	cfg := testBuildConfig(t)
	b := NewBuilder(cfg, zap.NewNop())

	res, err := b.Build()
	require.NoError(t, err)
	require.False(t, res.Skipped)
	assert.FileExists(t, cfg.MaskPath)
	assert.FileExists(t, cfg.NavPath)
	assert.Len(t, res.Corridors, 3)

	for _, l := range []da.StopLabel{"1", "2", "3", pkg.ENTRANCE, pkg.PRODUCE, pkg.BAKERY, pkg.FROZEN, pkg.DAIRY} {
		c, ok := res.Stops.Get(l)
		require.True(t, ok, "stop %s missing", l)
		assert.True(t, res.Mask.IsWalkableCoord(c), "stop %s at %v is not walkable", l, c)
	}

	entrance, _ := res.Stops.Get(pkg.ENTRANCE)
	frozen, _ := res.Stops.Get(pkg.FROZEN)
	assert.GreaterOrEqual(t, entrance.GetY(), 240-240/pkg.EDGE_MARGIN_DIV)
	assert.Less(t, frozen.GetY(), 240/pkg.EDGE_MARGIN_DIV)

	// artifacts read back equal to what was built
	mask, err := da.ReadMask(cfg.MaskPath)
	require.NoError(t, err)
	assert.True(t, mask.Equal(res.Mask))
	nf, err := da.ReadNavFile(cfg.NavPath)
	require.NoError(t, err)
	assert.Equal(t, pkg.NAVMESH_VERSION, nf.Meta.Version)
	assert.Len(t, nf.Stops, res.Stops.Len())
}

func TestBuilderSkipsWhenBuilt(t *testing.T) {
	cfg := testBuildConfig(t)
	b := NewBuilder(cfg, zap.NewNop())
	_, err := b.Build()
	require.NoError(t, err)

	navBefore, err := os.ReadFile(cfg.NavPath)
	require.NoError(t, err)
	maskBefore, err := os.ReadFile(cfg.MaskPath)
	require.NoError(t, err)

	res, err := b.Build()
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	navAfter, err := os.ReadFile(cfg.NavPath)
	require.NoError(t, err)
	maskAfter, err := os.ReadFile(cfg.MaskPath)
	require.NoError(t, err)
	assert.Equal(t, navBefore, navAfter)
	assert.Equal(t, maskBefore, maskAfter)

	// a lone leftover mask is overwritten
	require.NoError(t, os.Remove(cfg.NavPath))
	res, err = b.Build()
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.FileExists(t, cfg.NavPath)
}

func TestBuilderDuplicateAisleKeys(t *testing.T) {
	cfg := testBuildConfig(t)
	require.NoError(t, os.WriteFile(cfg.KeywordsPath,
		[]byte(`{"1":["bread"],"01":["rolls"],"2":["cereal"],"3":["pasta"]}`), 0o644))

	res, err := NewBuilder(cfg, zap.NewNop()).Build()
	require.NoError(t, err)
	for _, l := range []da.StopLabel{"1", "2", "3"} {
		_, ok := res.Stops.Get(l)
		assert.True(t, ok, "stop %s missing", l)
	}
	_, ok := res.Stops.Get("01")
	assert.False(t, ok)
}

func TestBuilderMissingSource(t *testing.T) {
	cfg := testBuildConfig(t)
	require.NoError(t, os.Remove(cfg.StoreImagePath))

	_, err := NewBuilder(cfg, zap.NewNop()).Build()
	assert.ErrorIs(t, err, ErrSourceRasterMissing)
	assert.NoFileExists(t, cfg.MaskPath)
}

func TestBuilderReversedLayout(t *testing.T) {
	cfg := testBuildConfig(t)
	b := NewBuilder(cfg, zap.NewNop())

	asc, err := b.BuildFromImage(shelfImage(), []int{1, 2, 3}, nil)
	require.NoError(t, err)
	desc, err := b.BuildFromImage(shelfImage(), []int{1, 2, 3}, &LayoutHint{RouteOrder: []string{"Entrance", "3", "2", "1"}})
	require.NoError(t, err)

	a1, _ := asc.Stops.Get("1")
	a3, _ := asc.Stops.Get("3")
	d1, _ := desc.Stops.Get("1")
	d3, _ := desc.Stops.Get("3")
	assert.Less(t, a1.GetX(), a3.GetX())
	assert.Equal(t, a1.GetX(), d3.GetX())
	assert.Equal(t, a3.GetX(), d1.GetX())
}
