package main

import (
	"flag"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/lintang-b-s/storenav/pkg/config"
	"github.com/lintang-b-s/storenav/pkg/logger"
	"github.com/lintang-b-s/storenav/pkg/navmesh"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

var (
	storeImage   = flag.String("image", "", "store raster (grayscale png); overrides STORE_IMAGE_PATH")
	maskOut      = flag.String("mask", "", "output walkability mask png; overrides MASK_PATH")
	navOut       = flag.String("nav", "", "output stop table json; overrides NAV_PATH")
	keywords     = flag.String("keywords", "", "aisle keywords json; overrides KEYWORDS_PATH")
	layout       = flag.String("layout", "", "layout hint json; overrides LAYOUT_PATH")
	entranceEdge = flag.String("entrance_edge", "", "top|bottom|left|right; overrides ENTRANCE_EDGE")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadNavmeshConfig()
	if err != nil {
		logger.Fatal("invalid navmesh config", zap.Error(err))
	}
	override(&cfg.StoreImagePath, *storeImage)
	override(&cfg.MaskPath, *maskOut)
	override(&cfg.NavPath, *navOut)
	override(&cfg.KeywordsPath, *keywords)
	override(&cfg.LayoutPath, *layout)
	if *entranceEdge != "" {
		cfg.EntranceEdge = pkg.GetEdge(*entranceEdge)
		if err := cfg.Validate(); err != nil {
			logger.Fatal("invalid navmesh config", zap.Error(err))
		}
	}

	builder := navmesh.NewBuilder(cfg, logger)
	res, err := builder.Build()
	if err != nil {
		logger.Fatal("navmesh build failed", zap.Error(err))
	}
	if res.Skipped {
		return
	}

	logger.Sugar().Infof("Detected %d corridors, wrote %s and %s", len(res.Corridors), cfg.MaskPath, cfg.NavPath)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
