package routing

import (
	"slices"

	"httpkit/application/http/semantic"
)

// Mediator runs before middlewares, then the controller, then after
// middlewares, each in registration order.
type Mediator[C any] struct {
	before     []Middleware[C]
	after      []Middleware[C]
	controller Controller[C]
}

var _ Controller[any] = (*Mediator[any])(nil)

func NewMediator[C any](controller Controller[C], before, after []Middleware[C]) *Mediator[C] {
	return &Mediator[C]{
		before:     slices.Clone(before),
		after:      slices.Clone(after),
		controller: controller,
	}
}

func (m *Mediator[C]) Handle(ctx C, req *semantic.Request) semantic.Response {
	return cursor[C]{m: m}.Handle(ctx, req)
}

// cursor is the remaining pipeline from before[idx].
type cursor[C any] struct {
	m   *Mediator[C]
	idx int
}

func (c cursor[C]) Handle(ctx C, req *semantic.Request) semantic.Response {
	if c.idx < len(c.m.before) {
		return c.m.before[c.idx].Handle(ctx, req, cursor[C]{m: c.m, idx: c.idx + 1})
	}

	res := c.m.controller.Handle(ctx, req)
	for _, mw := range c.m.after {
		res = mw.Handle(ctx, req, settled[C]{res: res})
	}
	return res
}

// settled hands the response produced so far to an after middleware.
type settled[C any] struct{ res semantic.Response }

func (s settled[C]) Handle(C, *semantic.Request) semantic.Response { return s.res }
