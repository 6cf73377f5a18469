package engine

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/lintang-b-s/storenav/pkg"
	"github.com/lintang-b-s/storenav/pkg/config"
	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/lintang-b-s/storenav/pkg/navmesh"
	"github.com/lintang-b-s/storenav/pkg/render"
	"github.com/lintang-b-s/storenav/pkg/spatialindex"
	"github.com/lintang-b-s/storenav/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrNavmeshMissing = errors.New("navmesh files not found; build the navmesh first")
)

// Engine owns everything a route query needs: mask, stop table, distance cache, solver and renderer.
type Engine struct {
	mask     *da.WalkabilityMask
	stops    *da.StopTable
	baseImg  image.Image
	astar    *routing.GridAstar
	cache    *routing.DistanceCache
	solver   *routing.RouteSolver
	renderer *render.RouteRenderer
	rtree    *spatialindex.Rtree
	resolver routing.LabelResolver
	log      *zap.Logger
}

// Leg one hop of a route with its cell path. Path is empty when Reachable is false.
type Leg struct {
	From      da.StopLabel
	To        da.StopLabel
	Cost      float64
	Reachable bool
	Path      []da.Coordinate
}

// NewEngine loads nav.json, the mask PNG, the distance cache and (when present) the store image and keyword file.
func NewEngine(cfg config.EngineConfig, log *zap.Logger) (*Engine, error) {
	log.Info("Starting store route engine...")
	if !da.FileExists(cfg.NavPath) || !da.FileExists(cfg.MaskPath) {
		return nil, fmt.Errorf("%w: %s, %s", ErrNavmeshMissing, cfg.NavPath, cfg.MaskPath)
	}

	log.Info("Reading navmesh from ", zap.String("navPath", cfg.NavPath))
	nf, err := da.ReadNavFile(cfg.NavPath)
	if err != nil {
		return nil, err
	}

	log.Info("Reading walkability mask from ", zap.String("maskPath", cfg.MaskPath))
	mask, err := da.ReadMask(cfg.MaskPath)
	if err != nil {
		return nil, err
	}

	stops, err := nf.StopTable(mask.GetWidth(), mask.GetHeight())
	if err != nil {
		return nil, err
	}

	var baseImg image.Image
	if nf.ImagePath != "" && da.FileExists(nf.ImagePath) {
		baseImg, err = da.ReadImage(nf.ImagePath)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("store image not found, rendering over the mask", zap.String("imagePath", nf.ImagePath))
		baseImg = mask.ToGray()
	}

	var resolver routing.LabelResolver
	if cfg.KeywordsPath != "" && da.FileExists(cfg.KeywordsPath) {
		keywords, err := navmesh.LoadAisleKeywords(cfg.KeywordsPath)
		if err != nil {
			return nil, err
		}
		resolver = routing.NewKeywordResolver(keywords)
	}

	e, err := NewEngineDirect(mask, stops, baseImg, routing.NewJSONFileStore(cfg.DistCachePath), cfg.TwoOptPasses, log)
	if err != nil {
		return nil, err
	}
	e.resolver = resolver
	return e, nil
}

// NewEngineDirect builds an engine from in-memory artifacts. store may be nil; baseImg nil renders over the mask.
func NewEngineDirect(mask *da.WalkabilityMask, stops *da.StopTable, baseImg image.Image, store routing.CacheStore,
	twoOptPasses int, log *zap.Logger) (*Engine, error) {
	astar := routing.NewGridAstar(mask)
	cache, err := routing.NewDistanceCache(stops, astar, store, log)
	if err != nil {
		return nil, err
	}
	if baseImg == nil {
		baseImg = mask.ToGray()
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(stops, log)

	return &Engine{
		mask:     mask,
		stops:    stops,
		baseImg:  baseImg,
		astar:    astar,
		cache:    cache,
		solver:   routing.NewRouteSolver(cache, twoOptPasses, log),
		renderer: render.NewRouteRenderer(astar, stops, log),
		rtree:    rtree,
		log:      log,
	}, nil
}

func (e *Engine) GetStops() *da.StopTable {
	return e.stops
}

func (e *Engine) GetMask() *da.WalkabilityMask {
	return e.mask
}

func (e *Engine) GetCache() *routing.DistanceCache {
	return e.cache
}

func (e *Engine) GetSpatialIndex() *spatialindex.Rtree {
	return e.rtree
}

// GetResolver nil when no keyword file was loaded.
func (e *Engine) GetResolver() routing.LabelResolver {
	return e.resolver
}

func (e *Engine) SetResolver(r routing.LabelResolver) {
	e.resolver = r
}

func (e *Engine) ShortestDistance(a, b da.StopLabel) (float64, error) {
	return e.cache.Distance(a, b)
}

// ShortestPath recomputes the cell path between two stops; paths are never cached.
func (e *Engine) ShortestPath(a, b da.StopLabel) (float64, []da.Coordinate, error) {
	s, t, err := e.coords(a, b)
	if err != nil {
		return pkg.INF_WEIGHT, nil, err
	}
	cost, path := e.astar.ShortestPath(s, t)
	return cost, path, nil
}

func (e *Engine) SolveRoute(stops []da.StopLabel, start da.StopLabel) (routing.Route, error) {
	return e.solver.Solve(stops, start)
}

func (e *Engine) RouteCost(route routing.Route) (float64, error) {
	return e.solver.RouteCost(route)
}

// RouteLegs cost (from the cache) and path of every consecutive pair of the route.
func (e *Engine) RouteLegs(route routing.Route) ([]Leg, error) {
	legs := make([]Leg, 0, len(route))
	for i := 0; i+1 < len(route); i++ {
		d, err := e.cache.Get(route[i], route[i+1])
		if err != nil {
			return nil, err
		}
		leg := Leg{From: route[i], To: route[i+1], Cost: d.Cost, Reachable: d.Reachable}
		if d.Reachable {
			_, leg.Path, _ = e.ShortestPath(route[i], route[i+1])
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

func (e *Engine) RenderRoute(route routing.Route) (*image.RGBA, error) {
	return e.renderer.Render(e.baseImg, route)
}

// NearestStops k stops closest to pixel (x, y).
func (e *Engine) NearestStops(x, y float64, k int) []spatialindex.StopHit {
	return e.rtree.Nearest(x, y, k)
}

// Prewarm fills the cache for every pair of labels (all stops when labels is empty).
func (e *Engine) Prewarm(ctx context.Context, labels []da.StopLabel, numWorkers int) (int, error) {
	if len(labels) == 0 {
		labels = e.stops.SortedLabels()
	}
	return e.cache.Prewarm(ctx, labels, numWorkers)
}

func (e *Engine) coords(a, b da.StopLabel) (da.Coordinate, da.Coordinate, error) {
	s, ok := e.stops.Get(a)
	if !ok {
		return da.Coordinate{}, da.Coordinate{}, util.WrapErrorf(routing.ErrUnknownStop, util.ErrBadParamInput,
			"unknown stop %q", a)
	}
	t, ok := e.stops.Get(b)
	if !ok {
		return da.Coordinate{}, da.Coordinate{}, util.WrapErrorf(routing.ErrUnknownStop, util.ErrBadParamInput,
			"unknown stop %q", b)
	}
	return s, t, nil
}
