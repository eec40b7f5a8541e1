package server

import (
	"context"
	"log/slog"

	"httpkit/application/http/semantic"
	"httpkit/application/http/session"
	"httpkit/transport"
)

// RequestContext is what controllers get besides the request.
// It lives for a single exchange.
type RequestContext struct {
	ctx        context.Context
	remoteAddr transport.Addr
	logger     *slog.Logger

	sessionID string
	store     session.Store
	session   *session.Session

	cookies   semantic.CookieJar
	responses semantic.ResponseFactory
	services  any
}

func (c *RequestContext) Context() context.Context  { return c.ctx }
func (c *RequestContext) RemoteAddr() transport.Addr { return c.remoteAddr }
func (c *RequestContext) Logger() *slog.Logger       { return c.logger }

// Cookies are the cookies the request carried.
func (c *RequestContext) Cookies() semantic.CookieJar { return c.cookies }

// Responses builds responses with the server's version and defaults.
func (c *RequestContext) Responses() semantic.ResponseFactory { return c.responses }

func (c *RequestContext) Services() any { return c.services }

func (c *RequestContext) SessionID() string { return c.sessionID }

// Session loads the session on first use. It is saved after the
// controller returns.
func (c *RequestContext) Session() (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}

	s, err := session.New(c.sessionID, c.store)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}
