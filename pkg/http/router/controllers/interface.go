package controllers

import (
	"image"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/http/usecases"
	"github.com/lintang-b-s/storenav/pkg/spatialindex"
)

type RoutingService interface {
	Route(stops, items []string, start string) (*usecases.RouteResult, error)
	RouteImage(stops, items []string, start string) (*image.RGBA, error)
	Distance(from, to string) (float64, bool, error)
	Stops() []da.StopEntry
	NearestStops(x, y float64, k int) []spatialindex.StopHit
}
