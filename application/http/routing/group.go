package routing

import (
	"slices"
)

// RouteGroup shares a path prefix and middlewares between routes and
// nested groups. Routes flattens it once; the router never sees groups.
type RouteGroup[C any] struct {
	prefix  string
	before  []Middleware[C]
	after   []Middleware[C]
	entries []groupEntry[C]
}

// groupEntry keeps routes and subgroups in registration order.
type groupEntry[C any] struct {
	route *Route[C]
	group *RouteGroup[C]
}

func NewGroup[C any](prefix string) *RouteGroup[C] {
	return &RouteGroup[C]{prefix: prefix}
}

func (g *RouteGroup[C]) Prefix() string { return g.prefix }

// Before appends middlewares run ahead of the controllers.
func (g *RouteGroup[C]) Before(mw ...Middleware[C]) *RouteGroup[C] {
	g.before = append(g.before, mw...)
	return g
}

// After appends middlewares run once the controller returned.
func (g *RouteGroup[C]) After(mw ...Middleware[C]) *RouteGroup[C] {
	g.after = append(g.after, mw...)
	return g
}

func (g *RouteGroup[C]) Add(route Route[C]) *RouteGroup[C] {
	g.entries = append(g.entries, groupEntry[C]{route: &route})
	return g
}

func (g *RouteGroup[C]) Group(child *RouteGroup[C]) *RouteGroup[C] {
	g.entries = append(g.entries, groupEntry[C]{group: child})
	return g
}

// Routes flattens the group. Patterns get the joined prefixes and
// controllers are wrapped in a Mediator with
// before = outer ++ inner and after = inner ++ outer.
func (g *RouteGroup[C]) Routes() []Route[C] {
	return g.flatten("", nil, nil)
}

func (g *RouteGroup[C]) flatten(prefix string, before, after []Middleware[C]) []Route[C] {
	prefix = joinPath(prefix, g.prefix)
	before = slices.Concat(before, g.before)
	after = slices.Concat(g.after, after)

	var routes []Route[C]
	for _, e := range g.entries {
		if e.group != nil {
			routes = append(routes, e.group.flatten(prefix, before, after)...)
			continue
		}

		route := *e.route
		route.Pattern = joinPath(prefix, route.Pattern)
		route.Headers = route.Headers.Clone()
		if len(before) > 0 || len(after) > 0 {
			route.Controller = NewMediator(route.Controller, before, after)
		}
		routes = append(routes, route)
	}
	return routes
}
