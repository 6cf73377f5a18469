package usecases

import (
	"image"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/engine"
	"github.com/lintang-b-s/storenav/pkg/engine/routing"
	"github.com/lintang-b-s/storenav/pkg/spatialindex"
)

type RouteEngine interface {
	GetStops() *da.StopTable
	GetResolver() routing.LabelResolver
	ShortestDistance(a, b da.StopLabel) (float64, error)
	SolveRoute(stops []da.StopLabel, start da.StopLabel) (routing.Route, error)
	RouteLegs(route routing.Route) ([]engine.Leg, error)
	RenderRoute(route routing.Route) (*image.RGBA, error)
}

type SpatialIndex interface {
	Nearest(x, y float64, k int) []spatialindex.StopHit
}
