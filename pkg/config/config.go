package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/spf13/viper"
)

// NavmeshConfig knobs of the navmesh build pipeline.
type NavmeshConfig struct {
	StoreImagePath   string
	MaskPath         string
	NavPath          string
	KeywordsPath     string
	LayoutPath       string
	CannyLow         float64
	CannyHigh        float64
	MorphKernel      int
	MinComponentArea int
	PeakMinDist      int
	EntranceEdge     pkg.Edge
}

// EngineConfig artifacts and knobs of the routing engine.
type EngineConfig struct {
	NavPath       string
	MaskPath      string
	DistCachePath string
	KeywordsPath  string
	TwoOptPasses  int
	NumWorkers    int
}

func setDefaults() {
	viper.SetDefault("DATA_DIR", "./data")

	viper.SetDefault("CANNY_LOW", pkg.CANNY_LOW)
	viper.SetDefault("CANNY_HIGH", pkg.CANNY_HIGH)
	viper.SetDefault("MORPH_KERNEL", pkg.MORPH_KERNEL)
	viper.SetDefault("MIN_COMPONENT_AREA", pkg.MIN_COMPONENT_AREA)
	viper.SetDefault("PEAK_MIN_DIST", pkg.PEAK_MIN_DIST)
	viper.SetDefault("ENTRANCE_EDGE", "bottom")

	viper.SetDefault("TWO_OPT_PASSES", pkg.TWO_OPT_PASSES)
	viper.SetDefault("NUM_WORKERS", runtime.NumCPU())
}

func dataPath(key, file string) string {
	if p := viper.GetString(key); p != "" {
		return p
	}
	return filepath.Join(viper.GetString("DATA_DIR"), file)
}

// LoadNavmeshConfig reads the build knobs from viper (config file or environment), falling back to defaults.
func LoadNavmeshConfig() (NavmeshConfig, error) {
	setDefaults()

	cfg := NavmeshConfig{
		StoreImagePath:   dataPath("STORE_IMAGE_PATH", "store_map.png"),
		MaskPath:         dataPath("MASK_PATH", "navmask.png"),
		NavPath:          dataPath("NAV_PATH", "nav.json"),
		KeywordsPath:     dataPath("KEYWORDS_PATH", "waukesha_aisles.keywords.json"),
		LayoutPath:       dataPath("LAYOUT_PATH", "waukesha_layout.json"),
		CannyLow:         viper.GetFloat64("CANNY_LOW"),
		CannyHigh:        viper.GetFloat64("CANNY_HIGH"),
		MorphKernel:      viper.GetInt("MORPH_KERNEL"),
		MinComponentArea: viper.GetInt("MIN_COMPONENT_AREA"),
		PeakMinDist:      viper.GetInt("PEAK_MIN_DIST"),
		EntranceEdge:     pkg.GetEdge(viper.GetString("ENTRANCE_EDGE")),
	}
	return cfg, cfg.Validate()
}

func DefaultNavmeshConfig() NavmeshConfig {
	return NavmeshConfig{
		CannyLow:         pkg.CANNY_LOW,
		CannyHigh:        pkg.CANNY_HIGH,
		MorphKernel:      pkg.MORPH_KERNEL,
		MinComponentArea: pkg.MIN_COMPONENT_AREA,
		PeakMinDist:      pkg.PEAK_MIN_DIST,
		EntranceEdge:     pkg.BOTTOM,
	}
}

func (c NavmeshConfig) Validate() error {
	if c.EntranceEdge == pkg.UNKNOWN_EDGE {
		return fmt.Errorf("entrance edge must be one of top|bottom|left|right")
	}
	if c.CannyLow < 0 || c.CannyHigh < 0 {
		return fmt.Errorf("canny thresholds must be non-negative, got %v/%v", c.CannyLow, c.CannyHigh)
	}
	if c.MorphKernel < 1 {
		return fmt.Errorf("morph kernel must be >= 1, got %d", c.MorphKernel)
	}
	if c.MinComponentArea < 0 || c.PeakMinDist < 0 {
		return fmt.Errorf("min component area and peak min dist must be non-negative")
	}
	return nil
}

// LoadEngineConfig reads the routing artifact paths and solver knobs from viper.
func LoadEngineConfig() EngineConfig {
	setDefaults()

	return EngineConfig{
		NavPath:       dataPath("NAV_PATH", "nav.json"),
		MaskPath:      dataPath("MASK_PATH", "navmask.png"),
		DistCachePath: dataPath("DIST_CACHE_PATH", "dist_cache.json"),
		KeywordsPath:  dataPath("KEYWORDS_PATH", "waukesha_aisles.keywords.json"),
		TwoOptPasses:  viper.GetInt("TWO_OPT_PASSES"),
		NumWorkers:    viper.GetInt("NUM_WORKERS"),
	}
}
