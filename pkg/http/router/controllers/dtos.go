package controllers

import (
	"math"

	da "github.com/lintang-b-s/storenav/pkg/datastructure"
	"github.com/lintang-b-s/storenav/pkg/http/usecases"
	"github.com/lintang-b-s/storenav/pkg/spatialindex"
)

type routeRequest struct {
	Stops []string `json:"stops" validate:"omitempty,max=200,dive,required"`
	Items []string `json:"items" validate:"omitempty,max=200,dive,required"`
	Start string   `json:"start" validate:"omitempty,max=64"`
}

type legResponse struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Cost      *float64 `json:"cost"` // null when unreachable
	Reachable bool     `json:"reachable"`
	Path      string   `json:"path,omitempty"`
}

type routeResponse struct {
	Route      []string      `json:"route"`
	TotalCost  *float64      `json:"total_cost"`
	Reachable  bool          `json:"reachable"`
	Legs       []legResponse `json:"legs"`
	Unresolved []string      `json:"unresolved_items,omitempty"`
}

// finite json can't carry +Inf, unreachable costs become null.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func NewRouteResponse(res *usecases.RouteResult) routeResponse {
	route := make([]string, len(res.Route))
	for i, l := range res.Route {
		route[i] = string(l)
	}
	legs := make([]legResponse, len(res.Legs))
	for i, l := range res.Legs {
		legs[i] = legResponse{
			From:      string(l.From),
			To:        string(l.To),
			Cost:      finite(l.Cost),
			Reachable: l.Reachable,
			Path:      l.Polyline,
		}
	}
	return routeResponse{
		Route:      route,
		TotalCost:  finite(res.TotalCost),
		Reachable:  res.Reachable(),
		Legs:       legs,
		Unresolved: res.Unresolved,
	}
}

type distanceRequest struct {
	From string `json:"from" validate:"required,max=64"`
	To   string `json:"to" validate:"required,max=64"`
}

type distanceResponse struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Cost      *float64 `json:"cost"`
	Reachable bool     `json:"reachable"`
}

func NewDistanceResponse(from, to string, cost float64, reachable bool) distanceResponse {
	return distanceResponse{
		From:      from,
		To:        to,
		Cost:      finite(cost),
		Reachable: reachable,
	}
}

type stopResponse struct {
	Label string `json:"label"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

func NewStopsResponse(entries []da.StopEntry) []stopResponse {
	stops := make([]stopResponse, len(entries))
	for i, e := range entries {
		stops[i] = stopResponse{Label: string(e.Label), X: e.Coord.GetX(), Y: e.Coord.GetY()}
	}
	return stops
}

type nearestStopsRequest struct {
	X float64 `json:"x" validate:"min=0"`
	Y float64 `json:"y" validate:"min=0"`
	K int     `json:"k" validate:"required,min=1,max=50"`
}

type nearestStopResponse struct {
	Label    string  `json:"label"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Distance float64 `json:"distance"`
}

func NewNearestStopsResponse(hits []spatialindex.StopHit) []nearestStopResponse {
	resp := make([]nearestStopResponse, len(hits))
	for i, h := range hits {
		resp[i] = nearestStopResponse{
			Label:    string(h.Label),
			X:        h.Coord.GetX(),
			Y:        h.Coord.GetY(),
			Distance: h.Dist,
		}
	}
	return resp
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
