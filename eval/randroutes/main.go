package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/lintang-b-s/storenav/pkg/concurrent"
	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	log "github.com/lintang-b-s/storenav/pkg/logger"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

var (
	numQueries = flag.Int("n", 1000, "number of random shopping lists")
	maxStops   = flag.Int("max_stops", 12, "maximum stops per shopping list")
	maxPasses  = flag.Int("max_passes", 5, "2-opt passes compared against nearest neighbor")
	seed       = flag.Int64("seed", 1, "random seed")
	out        = flag.String("out", "rand_routes_result.txt", "result file")
	workers    = flag.Int("workers", 8, "number of workers")
)

type routeQuery struct {
	row   int
	stops []da.StopLabel
}

// one output row: row, #stops, nearest neighbor cost, then cost and microseconds for 1..max_passes 2-opt passes.
func main() {
	flag.Parse()
	logger, err := log.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		logger.Warn("failed to read config, using defaults", zap.Error(err))
	}

	re, err := engine.NewEngine(config.LoadEngineConfig(), logger)
	if err != nil {
		panic(err)
	}

	labels := re.GetStops().SortedLabels()
	if len(labels) < 2 {
		logger.Fatal("need at least two stops", zap.Int("stops", len(labels)))
	}
	n, err := re.Prewarm(context.Background(), labels, *workers)
	if err != nil {
		panic(err)
	}
	logger.Sugar().Infof("prewarmed %d pairs", n)

	rng := rand.New(rand.NewSource(*seed))
	queries := make([]routeQuery, *numQueries)
	for i := range queries {
		k := 1 + rng.Intn(util.MinInt(*maxStops, len(labels)-1))
		perm := rng.Perm(len(labels))
		stops := make([]da.StopLabel, k+1)
		for j := range stops {
			stops[j] = labels[perm[j]]
		}
		queries[i] = routeQuery{row: i, stops: stops}
	}

	solvers := make([]*routing.RouteSolver, *maxPasses+1)
	for p := range solvers {
		solvers[p] = routing.NewRouteSolver(re.GetCache(), p, zap.NewNop())
	}

	fout, err := os.Create(*out)
	if err != nil {
		panic(err)
	}
	defer fout.Close()
	w := bufio.NewWriter(fout)
	defer w.Flush()

	lock := sync.Mutex{}

	solve := func(ctx context.Context, q routeQuery) error {
		start, stops := q.stops[0], q.stops[1:]
		rowRec := make([]string, 0, 3+2*(*maxPasses))
		rowRec = append(rowRec, fmt.Sprint(q.row), fmt.Sprint(len(stops)))

		for p, rs := range solvers {
			before := time.Now()
			route, err := rs.Solve(stops, start)
			if err != nil {
				return err
			}
			duration := time.Since(before)
			cost, err := rs.RouteCost(route)
			if err != nil {
				return err
			}
			rowRec = append(rowRec, fmt.Sprint(util.RoundFloat(cost, 2)))
			if p > 0 {
				rowRec = append(rowRec, fmt.Sprint(duration.Microseconds()))
			}
		}

		lock.Lock()
		defer lock.Unlock()
		for j, v := range rowRec {
			fmt.Fprint(w, v)
			if j < len(rowRec)-1 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprintln(w)
		if (q.row+1)%100 == 0 {
			logger.Sugar().Infof("done query %v", q.row+1)
		}
		return nil
	}

	failed := 0
	concurrent.Run(context.Background(), *workers, queries, solve, func(err error) {
		if err != nil {
			failed++
			logger.Error("route query failed", zap.Error(err))
		}
	})
	logger.Info("random routes done", zap.Int("queries", len(queries)), zap.Int("failed", failed),
		zap.String("out", *out))
}
