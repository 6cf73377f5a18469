package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/lintang-b-s/storenav/pkg/logger"
	"github.com/lintang-b-s/storenav/pkg/render"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

var (
	stopsFlag = flag.String("stops", "", "comma separated stop labels, e.g. 3,7,Dairy")
	itemsFlag = flag.String("items", "", "comma separated shopping items resolved through the keyword file")
	startFlag = flag.String("start", "", "start label (default Entrance, then Produce, then the first stop)")
	startXY   = flag.String("start_xy", "", "start at the stop nearest to pixel x,y")
	out       = flag.String("out", "", "write the rendered route to this png")
	prewarm   = flag.Bool("prewarm", false, "compute every pairwise stop distance before solving")
	workers   = flag.Int("workers", 0, "prewarm workers (default NUM_WORKERS)")
	passes    = flag.Int("two_opt_passes", -1, "2-opt sweeps (default TWO_OPT_PASSES)")
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

	cfg := config.LoadEngineConfig()
	if *passes >= 0 {
		cfg.TwoOptPasses = *passes
	}
	if *workers > 0 {
		cfg.NumWorkers = *workers
	}

	e, err := engine.NewEngine(cfg, logger)
	if err != nil {
		logger.Fatal("failed to start route engine", zap.Error(err))
	}

	if *prewarm {
		n, err := e.Prewarm(context.Background(), nil, cfg.NumWorkers)
		if err != nil {
			logger.Fatal("prewarm failed", zap.Error(err))
		}
		logger.Info("distance cache prewarmed", zap.Int("computed", n))
	}

	labels := make([]da.StopLabel, 0)
	for _, s := range splitList(*stopsFlag) {
		labels = append(labels, da.StopLabel(s))
	}
	if items := splitList(*itemsFlag); len(items) > 0 {
		resolver := e.GetResolver()
		if resolver == nil {
			logger.Fatal("items given but no keyword file loaded", zap.String("keywords", cfg.KeywordsPath))
		}
		resolved := resolver.Resolve(items)
		for i, l := range resolved {
			logger.Info("resolved item", zap.String("item", items[i]), zap.String("label", string(l)))
		}
		labels = append(labels, resolved...)
	}
	labels = routing.FilterResolved(labels)
	if len(labels) == 0 {
		logger.Fatal("nothing to route; pass --stops or --items")
	}

	start := da.StopLabel(*startFlag)
	if *startXY != "" {
		x, y, err := parseXY(*startXY)
		if err != nil {
			logger.Fatal("invalid --start_xy", zap.Error(err))
		}
		hits := e.NearestStops(x, y, 1)
		if len(hits) == 0 {
			logger.Fatal("no stop near start position")
		}
		start = hits[0].Label
		logger.Info("start snapped to nearest stop", zap.String("label", string(start)),
			zap.Float64("distance", hits[0].Dist))
	}
	if start == "" {
		start = routing.DefaultStart(e.GetStops(), labels)
	}

	route, err := e.SolveRoute(labels, start)
	if err != nil {
		logger.Fatal("failed to solve route", zap.Error(err))
	}
	total, err := e.RouteCost(route)
	if err != nil {
		logger.Fatal("failed to cost route", zap.Error(err))
	}

	parts := make([]string, len(route))
	for i, l := range route {
		parts[i] = string(l)
	}
	fmt.Printf("route: %s\n", strings.Join(parts, " -> "))
	fmt.Printf("total: %.2f px\n", total)

	if *out == "" {
		return
	}
	img, err := e.RenderRoute(route)
	if err != nil {
		logger.Fatal("failed to render route", zap.Error(err))
	}
	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("failed to create output", zap.Error(err))
	}
	defer f.Close()
	if err := render.EncodePNG(f, img); err != nil {
		logger.Fatal("failed to encode png", zap.Error(err))
	}
	logger.Info("route image written", zap.String("out", *out))
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseXY(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
