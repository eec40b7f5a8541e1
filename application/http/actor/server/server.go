package server

import (
	"context"
	"log/slog"
	"sync"

	"httpkit/application/http"
	"httpkit/application/http/routing"
	"httpkit/application/http/semantic"
	"httpkit/application/http/session"
	"httpkit/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Router is the router type the server dispatches with.
type Router = routing.Router[*RequestContext]

// Server answers one request per connection.
type Server struct {
	l transport.ConnListener

	closeListener func()
	wg            sync.WaitGroup

	logger *slog.Logger
	opts   Options

	router    *Router
	store     session.Store
	responses semantic.ResponseFactory
	clock     clock.Clock
}

func New(
	l transport.ConnListener,
	router *Router,
	store session.Store,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Server {
	if opts.SessionCookie == "" {
		opts.SessionCookie = DefaultOptions.SessionCookie
	}

	return &Server{
		l:         l,
		logger:    logger,
		opts:      opts,
		router:    router,
		store:     store,
		responses: semantic.NewResponseFactory(http.Version11, http.Headers{}),
		clock:     clock,
	}
}

// Start runs the accept loop in the background.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.closeListener = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.acceptConn(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) &&
					!errors.Is(err, transport.ErrConnListenerClosed) {
					s.logger.Error(
						"unexpected error when accepting connection",
						"error", err.Error(),
					)
				}
				return
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				conn.start(ctx)
			}()
		}
	}()
}

func (s *Server) acceptConn(ctx context.Context) (*conn, error) {
	con, err := s.l.Accept(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listening for connection")
	}

	return &conn{
		con:    con,
		server: s,
		logger: s.logger.With("conn", con.RemoteAddr().String()),
	}, nil
}

// Close stops accepting, closes the listener and waits for in-flight
// connections.
func (s *Server) Close() error {
	if s.closeListener != nil {
		s.closeListener()
	}

	err := s.l.Close()
	s.wg.Wait()

	if errors.Is(err, transport.ErrConnListenerClosed) {
		return nil
	}
	return errors.Wrap(err, "closing listener")
}
