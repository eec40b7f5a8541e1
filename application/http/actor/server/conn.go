package server

import (
	"context"
	"log/slog"
	"time"

	"httpkit/application/http"
	"httpkit/application/http/semantic"
	"httpkit/application/http/semantic/status"
	"httpkit/application/http/session"
	"httpkit/transport"

	"github.com/pkg/errors"
)

type conn struct {
	con    transport.Conn
	server *Server
	logger *slog.Logger
}

func (c *conn) start(ctx context.Context) {
	defer func() {
		c.logger.Debug("closing connection")
		if err := c.con.Close(); err != nil && !errors.Is(err, transport.ErrConnClosed) {
			c.logger.Error("error when closing connection", "error", err)
		}
	}()

	// Closing the connection unblocks pending reads and writes.
	stop := context.AfterFunc(ctx, func() { c.con.Close() })
	defer stop()

	req, res, ok := c.serve(ctx)
	if !ok {
		return
	}

	if err := c.writeResponse(req, res); err != nil {
		c.logger.Error("failed to write response", "error", err)
		return
	}

	if err := c.con.CloseWrite(); err != nil && !errors.Is(err, transport.ErrConnClosed) {
		c.logger.Error("failed to shut down writing", "error", err)
	}
}

// serve reads a request and produces its response.
// It reports false when there is nothing to answer.
func (c *conn) serve(ctx context.Context) (*semantic.Request, semantic.Response, bool) {
	opts := c.server.opts

	if timeout := opts.Timeout.ReadTimeout; timeout > 0 {
		c.con.SetReadDeadLine(c.server.clock.Now().Add(timeout))
	}

	raw, err := http.ReadFrame(c.con, false, opts.Frame)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, transport.ErrConnClosed) {
			return nil, semantic.Response{}, false
		}
		c.logger.Info("failed to read request", "error", err)
		return nil, c.badRequest(err), true
	}

	if len(raw) == 0 {
		// Connected and left without a word.
		return nil, semantic.Response{}, false
	}

	req, err := semantic.ParseRequest(string(raw), opts.Parse)
	if err != nil {
		c.logger.Info("malformed request", "error", err)
		return nil, c.badRequest(err), true
	}

	c.logger.Debug("handling request", "method", req.Method, "target", req.Target.String())
	return &req, c.handle(ctx, &req), true
}

func (c *conn) handle(ctx context.Context, req *semantic.Request) semantic.Response {
	s := c.server
	cookies := req.Cookies()

	sid, ok := cookies.Get(s.opts.SessionCookie)
	isNew := !ok || !session.ValidID(sid)
	if isNew {
		var err error
		if sid, err = session.NewID(); err != nil {
			c.logger.Error("failed to create session id", "error", err)
			return s.responses.Error(err)
		}
	}

	rc := &RequestContext{
		ctx:        ctx,
		remoteAddr: c.con.RemoteAddr(),
		logger:     c.logger,
		sessionID:  sid,
		store:      s.store,
		cookies:    cookies,
		responses:  s.responses,
		services:   s.opts.Services,
	}

	res, err := c.dispatch(rc, req)
	if err != nil {
		c.logger.Error("handler failed", "error", err)
		res = s.responses.Error(err)
	}

	// Saved on every exchange so a sliding expiry is refreshed.
	if sess, err := rc.Session(); err != nil {
		c.logger.Error("failed to load session", "error", err)
	} else if err := sess.Persist(); err != nil {
		c.logger.Error("failed to persist session", "error", err)
	}

	if isNew {
		res = res.WithCookie(semantic.Cookie{Name: s.opts.SessionCookie, Value: sid})
	}

	return res
}

func (c *conn) dispatch(rc *RequestContext, req *semantic.Request) (res semantic.Response, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("handler panicked: %v", e)
		}
	}()

	res, ok := c.server.router.Handle(rc, req)
	if !ok {
		return c.server.responses.NotFound(http.Headers{}), nil
	}
	return res, nil
}

func (c *conn) writeResponse(req *semantic.Request, res semantic.Response) error {
	s := c.server

	if timeout := s.opts.Timeout.WriteTimeout; timeout > 0 {
		c.con.SetWriteDeadLine(s.clock.Now().Add(timeout))
	}

	now := s.clock.Now()
	res = finishResponse(req, res, now)

	enc := http.NewEncoder(c.con)
	err := enc.Encode(res.StartLine(), res.Headers, res.Body)
	if errors.Is(err, http.ErrInvalidLine) {
		// Nothing was written yet.
		c.logger.Error("response cannot be encoded", "error", err)
		res = finishResponse(req, s.responses.Error(err), now)
		err = enc.Encode(res.StartLine(), res.Headers, res.Body)
	}
	if err != nil {
		return errors.Wrap(err, "encoding response")
	}
	return nil
}

// finishResponse sets the fields every response of this server carries.
// req is nil when the request could not be parsed.
func finishResponse(req *semantic.Request, res semantic.Response, now time.Time) semantic.Response {
	// WithVersion copies, so the headers below are ours to change.
	res = res.WithVersion(http.Version11)

	if res.Status.Code == 0 {
		res.Status = status.InternalServerError
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-6.6.1-6
	res.Headers.Set("Date", semantic.FormatDate(now))
	res.Headers.Set("Connection", "close")

	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.6-8
	if res.Status.IsInformational() || res.Status == status.NoContent {
		res.Headers.Del("Content-Length")
		res.Body = nil
	} else {
		res.EnsureContentLength()
	}

	if req != nil && req.Method == http.MethodHead {
		res.Body = nil
	}

	return res
}

// badRequest answers a request that could not be read or parsed.
func (c *conn) badRequest(err error) semantic.Response {
	se := toStatusError(err)
	res := c.server.responses.Error(se)
	if cause := se.Cause(); cause != nil {
		res = res.WithBody([]byte(cause.Error()))
	}
	return res
}

// toStatusError maps a failure to read or parse a request to its status.
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.2-9
func toStatusError(err error) status.Error {
	switch {
	case errors.Is(err, transport.ErrDeadLineExceeded):
		return status.NewError(nil, status.RequestTimeout)
	case errors.Is(err, http.ErrHeadTooLarge):
		return status.NewError(err, status.RequestHeaderFieldsTooLarge)
	case errors.Is(err, http.ErrBodyTooLarge):
		return status.NewError(err, status.ContentTooLarge)
	case errors.Is(err, semantic.ErrURITooLong):
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3-4
		return status.NewError(err, status.URITooLong)
	case errors.Is(err, http.ErrUnsupportedTransferCoding):
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.1-16
		return status.NewError(err, status.NotImplemented)
	}
	return status.NewError(err, status.BadRequest)
}
