package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/storenav/pkg/config"
	"github.com/lintang-b-s/storenav/pkg/engine"
	"github.com/lintang-b-s/storenav/pkg/http"
	"github.com/lintang-b-s/storenav/pkg/http/usecases"
	"github.com/lintang-b-s/storenav/pkg/logger"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", true, "per client ip rate limiting")
	prewarm      = flag.Bool("prewarm", false, "compute every pairwise stop distance before serving")
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
	routeEngine, err := engine.NewEngine(cfg, logger)
	if err != nil {
		panic(err)
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	if *prewarm {
		n, err := routeEngine.Prewarm(ctx, nil, cfg.NumWorkers)
		if err != nil {
			panic(err)
		}
		logger.Info("distance cache prewarmed", zap.Int("computed", n))
	}

	api := http.NewServer(logger)

	routingService := usecases.NewRoutingService(logger, routeEngine, routeEngine.GetSpatialIndex())
	if _, err := api.Use(ctx, logger, *useRateLimit, routingService); err != nil {
		panic(err)
	}

	go func() {
		if err := api.Wait(); err != nil && err != context.Canceled {
			logger.Error("API stopped", zap.Error(err))
		}
	}()

	signal := http.GracefulShutdown()

	logger.Info("Storenav Route Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	_ = api.Wait()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
