package config

import (
	"testing"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavmeshConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(c *NavmeshConfig)
		wantErr bool
	}{
		{"defaults", func(c *NavmeshConfig) {}, false},
		{"unknown edge", func(c *NavmeshConfig) { c.EntranceEdge = pkg.UNKNOWN_EDGE }, true},
		{"negative canny", func(c *NavmeshConfig) { c.CannyLow = -1 }, true},
		{"zero kernel", func(c *NavmeshConfig) { c.MorphKernel = 0 }, true},
		{"negative area", func(c *NavmeshConfig) { c.MinComponentArea = -5 }, true},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultNavmeshConfig()
			tt.modify(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLoadNavmeshConfigFromViper(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("DATA_DIR", "/srv/store")
	viper.Set("ENTRANCE_EDGE", "left")
	viper.Set("MASK_PATH", "/tmp/custom_mask.png")

	cfg, err := LoadNavmeshConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/store/store_map.png", cfg.StoreImagePath)
	assert.Equal(t, "/tmp/custom_mask.png", cfg.MaskPath)
	assert.Equal(t, pkg.LEFT, cfg.EntranceEdge)
	assert.Equal(t, pkg.MORPH_KERNEL, cfg.MorphKernel)

	viper.Set("ENTRANCE_EDGE", "sideways")
	_, err = LoadNavmeshConfig()
	assert.Error(t, err)
}

func TestLoadEngineConfigDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("DATA_DIR", "/srv/store")

	cfg := LoadEngineConfig()
	assert.Equal(t, "/srv/store/dist_cache.json", cfg.DistCachePath)
	assert.Equal(t, pkg.TWO_OPT_PASSES, cfg.TwoOptPasses)
	assert.Positive(t, cfg.NumWorkers)
}
