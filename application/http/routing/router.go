package routing

import (
	"httpkit/application/http/semantic"
)

// Router holds flat routes and picks the first that matches.
// Add and Mount are for setup. Once serving starts the table is only read,
// so Match and Handle are safe for concurrent use.
type Router[C any] struct {
	routes []Route[C]
}

func NewRouter[C any](routes ...Route[C]) *Router[C] {
	r := &Router[C]{}
	for _, route := range routes {
		r.Add(route)
	}
	return r
}

func (r *Router[C]) Add(route Route[C]) *Router[C] {
	route.Headers = route.Headers.Clone()
	r.routes = append(r.routes, route)
	return r
}

// Mount adds the flattened routes of g.
func (r *Router[C]) Mount(g *RouteGroup[C]) *Router[C] {
	r.routes = append(r.routes, g.Routes()...)
	return r
}

func (r *Router[C]) Routes() []Route[C] {
	routes := make([]Route[C], len(r.routes))
	copy(routes, r.routes)
	return routes
}

// Match finds the first route accepting req in registration order.
func (r *Router[C]) Match(req *semantic.Request) (Route[C], map[string]string, bool) {
	for _, route := range r.routes {
		if params, ok := route.Match(req); ok {
			return route, params, true
		}
	}
	return Route[C]{}, nil, false
}

// Handle invokes the matching controller with the captures stored in
// req.Params. It reports false when nothing matches.
func (r *Router[C]) Handle(ctx C, req *semantic.Request) (semantic.Response, bool) {
	route, params, ok := r.Match(req)
	if !ok {
		return semantic.Response{}, false
	}

	req.Params = params
	return route.Controller.Handle(ctx, req), true
}
