package routing

import "httpkit/application/http/semantic"

// Controller answers a request. C is whatever the caller injects,
// e.g. a request-scoped context holding the session.
type Controller[C any] interface {
	Handle(ctx C, req *semantic.Request) semantic.Response
}

type ControllerFunc[C any] func(ctx C, req *semantic.Request) semantic.Response

func (f ControllerFunc[C]) Handle(ctx C, req *semantic.Request) semantic.Response {
	return f(ctx, req)
}

// Middleware wraps the rest of the pipeline. Not calling next stops it.
type Middleware[C any] interface {
	Handle(ctx C, req *semantic.Request, next Controller[C]) semantic.Response
}

type MiddlewareFunc[C any] func(ctx C, req *semantic.Request, next Controller[C]) semantic.Response

func (f MiddlewareFunc[C]) Handle(ctx C, req *semantic.Request, next Controller[C]) semantic.Response {
	return f(ctx, req, next)
}
