package routerhelper

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers httprouter handles under a shared path prefix.
type RouteGroup struct {
	r *httprouter.Router
	p string
}

func NewRouteGroup(r *httprouter.Router, p string) *RouteGroup {
	return &RouteGroup{r: r, p: p}
}

func (g *RouteGroup) Group(p string) *RouteGroup {
	return NewRouteGroup(g.r, g.path(p))
}

func (g *RouteGroup) GET(path string, handle httprouter.Handle) {
	g.r.GET(g.path(path), handle)
}

func (g *RouteGroup) POST(path string, handle httprouter.Handle) {
	g.r.POST(g.path(path), handle)
}

func (g *RouteGroup) Handle(method, path string, handle httprouter.Handle) {
	g.r.Handle(method, g.path(path), handle)
}

func (g *RouteGroup) Handler(method, path string, handler http.Handler) {
	g.r.Handler(method, g.path(path), handler)
}

func (g *RouteGroup) path(p string) string {
	if p == "" || p == "/" {
		return g.p
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return g.p + p
}
