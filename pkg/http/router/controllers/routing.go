package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/storenav/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/storenav/pkg/render"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.POST("/route", api.route)
	group.POST("/route/image", api.routeImage)
	group.GET("/distance", api.distance)
	group.GET("/stops", api.stops)
	group.GET("/stops/nearest", api.nearestStops)
}

func (api *routingAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	res, err := api.routingService.Route(request.Stops, request.Items, request.Start)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(res)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) routeImage(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, ok := api.decodeRouteRequest(w, r)
	if !ok {
		return
	}

	img, err := api.routingService.RouteImage(request.Stops, request.Items, request.Start)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		api.log.Warn("failed to write route image", zap.Error(err))
	}
}

func (api *routingAPI) distance(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	query := r.URL.Query()
	request := distanceRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}
	if !api.validate(w, r, request) {
		return
	}

	cost, reachable, err := api.routingService.Distance(request.From, request.To)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewDistanceResponse(request.From, request.To, cost,
		reachable)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) stops(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewStopsResponse(api.routingService.Stops())},
		headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) nearestStops(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestStopsRequest
		err     error
	)

	query := r.URL.Query()

	request.X, err = strconv.ParseFloat(query.Get("x"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("x is required and must be a valid float"))
		return
	}
	request.Y, err = strconv.ParseFloat(query.Get("y"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("y is required and must be a valid float"))
		return
	}
	request.K = 1
	if k := query.Get("k"); k != "" {
		request.K, err = strconv.Atoi(k)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("k must be a valid int"))
			return
		}
	}
	if !api.validate(w, r, request) {
		return
	}

	hits := api.routingService.NearestStops(request.X, request.Y, request.K)

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewNearestStopsResponse(hits)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *routingAPI) decodeRouteRequest(w http.ResponseWriter, r *http.Request) (routeRequest, bool) {
	var request routeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("invalid request body: %w", err))
		return request, false
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return request, false
	}
	return request, api.validate(w, r, request)
}
