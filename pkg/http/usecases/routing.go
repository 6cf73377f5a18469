package usecases

import (
	"errors"
	"image"
	"math"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/lintang-b-s/storenav/pkg/geo"
	"github.com/lintang-b-s/storenav/pkg/spatialindex"
	"go.uber.org/zap"
)

var (
	ErrNoStops             = errors.New("no routable stops in request")
	ErrResolverUnavailable = errors.New("item resolution is not configured")
)

type RoutingService struct {
	log          *zap.Logger
	engine       RouteEngine
	spatialIndex SpatialIndex
}

func NewRoutingService(log *zap.Logger, engine RouteEngine, spatialIndex SpatialIndex) *RoutingService {
	return &RoutingService{
		log:          log,
		engine:       engine,
		spatialIndex: spatialIndex,
	}
}

type LegResult struct {
	From      da.StopLabel
	To        da.StopLabel
	Cost      float64
	Reachable bool
	Polyline  string
}

type RouteResult struct {
	Route      routing.Route
	TotalCost  float64
	Legs       []LegResult
	Unresolved []string
}

// Reachable false when at least one leg of the route has no path.
func (rr *RouteResult) Reachable() bool {
	return !math.IsInf(rr.TotalCost, 1)
}

// Route orders the requested stops (plus the stops resolved from free-text items) starting at start.
// an empty start picks Entrance, then Produce, then the first requested stop.
func (rs *RoutingService) Route(stops, items []string, start string) (*RouteResult, error) {
	route, unresolved, err := rs.solve(stops, items, start)
	if err != nil {
		return nil, err
	}

	legs, err := rs.engine.RouteLegs(route)
	if err != nil {
		return nil, err
	}

	res := &RouteResult{
		Route:      route,
		Legs:       make([]LegResult, 0, len(legs)),
		Unresolved: unresolved,
	}
	for _, l := range legs {
		res.TotalCost += l.Cost
		lr := LegResult{From: l.From, To: l.To, Cost: l.Cost, Reachable: l.Reachable}
		if l.Reachable {
			lr.Polyline = geo.PolylineFromPath(l.Path)
		}
		res.Legs = append(res.Legs, lr)
	}

	rs.log.Info("route computed", zap.Int("stops", len(route)), zap.Float64("total_cost", res.TotalCost),
		zap.Int("unresolved", len(unresolved)))
	return res, nil
}

func (rs *RoutingService) RouteImage(stops, items []string, start string) (*image.RGBA, error) {
	route, _, err := rs.solve(stops, items, start)
	if err != nil {
		return nil, err
	}
	return rs.engine.RenderRoute(route)
}

// Distance shortest walking distance in pixels; reachable=false when the stops are disconnected.
func (rs *RoutingService) Distance(from, to string) (float64, bool, error) {
	a, b := da.StopLabel(from), da.StopLabel(to)
	if err := rs.checkKnown([]da.StopLabel{a, b}); err != nil {
		return 0, false, err
	}
	d, err := rs.engine.ShortestDistance(a, b)
	if err != nil {
		return 0, false, err
	}
	return d, !math.IsInf(d, 1), nil
}

func (rs *RoutingService) Stops() []da.StopEntry {
	return rs.engine.GetStops().Entries()
}

func (rs *RoutingService) NearestStops(x, y float64, k int) []spatialindex.StopHit {
	return rs.spatialIndex.Nearest(x, y, k)
}

func (rs *RoutingService) solve(stops, items []string, start string) (routing.Route, []string, error) {
	labels, unresolved, err := rs.resolve(stops, items)
	if err != nil {
		return nil, nil, err
	}

	startLabel := da.StopLabel(start)
	if startLabel == "" {
		startLabel = routing.DefaultStart(rs.engine.GetStops(), labels)
	}
	if err := rs.checkKnown(append(labels, startLabel)); err != nil {
		return nil, nil, err
	}

	route, err := rs.engine.SolveRoute(labels, startLabel)
	if err != nil {
		return nil, nil, err
	}
	return route, unresolved, nil
}
