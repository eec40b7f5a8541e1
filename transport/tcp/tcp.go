// Package tcp runs the transport interfaces on OS TCP sockets.
package tcp

import (
	"context"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"httpkit/transport"

	"github.com/pkg/errors"
	"golang.org/x/net/netutil"
)

type ListenOptions struct {
	// MaxConns bounds connections open at once. Accept blocks while the
	// bound is reached. Zero means unbounded.
	MaxConns int

	// ReuseAddr sets SO_REUSEADDR where the platform supports it.
	ReuseAddr bool
}

var DefaultListenOptions = ListenOptions{ReuseAddr: true}

type Listener struct {
	raw   *net.TCPListener
	inner net.Listener

	// acceptMu serializes Accept so that accepted pairs the wrapped conn
	// returned by inner with the raw conn seen by rawListener.
	acceptMu sync.Mutex
	accepted *net.TCPConn
}

var _ transport.ConnListener = (*Listener)(nil)

func Listen(ctx context.Context, addr string, opts ListenOptions) (*Listener, error) {
	var lc net.ListenConfig
	if opts.ReuseAddr {
		lc.Control = reuseAddr
	}

	nl, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %q", addr)
	}

	l := &Listener{raw: nl.(*net.TCPListener)}
	l.inner = rawListener{l}
	if opts.MaxConns > 0 {
		l.inner = netutil.LimitListener(l.inner, opts.MaxConns)
	}

	return l, nil
}

// rawListener hands the accepted *net.TCPConn to the Listener before
// any wrapping hides it.
type rawListener struct{ l *Listener }

func (r rawListener) Accept() (net.Conn, error) {
	c, err := r.l.raw.AcceptTCP()
	if err != nil {
		return nil, err
	}
	r.l.accepted = c
	return c, nil
}

func (r rawListener) Close() error   { return r.l.raw.Close() }
func (r rawListener) Addr() net.Addr { return r.l.raw.Addr() }

func (l *Listener) Addr() transport.Addr { return l.raw.Addr() }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	l.acceptMu.Lock()
	defer l.acceptMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Unblock the pending accept once ctx is done.
	if err := l.raw.SetDeadline(time.Time{}); err != nil {
		return nil, mapListenerError(err)
	}
	stop := context.AfterFunc(ctx, func() {
		l.raw.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	c, err := l.inner.Accept()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(mapListenerError(err), "accepting connection")
	}

	raw := l.accepted
	l.accepted = nil
	return &conn{c: c, raw: raw}, nil
}

func (l *Listener) Close() error {
	if err := l.inner.Close(); err != nil {
		return mapListenerError(err)
	}
	return nil
}

func mapListenerError(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return transport.ErrConnListenerClosed
	}
	return err
}

type DialOptions struct {
	// Timeout bounds connection establishment. Zero means none.
	Timeout time.Duration
	// KeepAlive is the keep-alive period; zero uses the system default and
	// a negative value disables it.
	KeepAlive time.Duration
}

var DefaultDialOptions = DialOptions{}

type Dialer struct {
	d net.Dialer
}

var _ transport.ConnDialer = (*Dialer)(nil)

func NewDialer(opts DialOptions) *Dialer {
	return &Dialer{d: net.Dialer{Timeout: opts.Timeout, KeepAlive: opts.KeepAlive}}
}

func (d *Dialer) Dial(ctx context.Context, addr string) (transport.Conn, error) {
	c, err := d.d.DialContext(ctx, "tcp", addr)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Wrapf(transport.ErrConnRefused, "dialing %q: %s", addr, err)
	}

	raw := c.(*net.TCPConn)
	return &conn{c: raw, raw: raw}, nil
}

// conn reads, writes and closes through c, which may be wrapped by the
// admission limit, and uses raw for what the wrapper hides.
type conn struct {
	c   net.Conn
	raw *net.TCPConn
}

var _ transport.Conn = (*conn)(nil)

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.c.Read(p)
	return n, mapError(err)
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.c.Write(p)
	return n, mapError(err)
}

func (c *conn) Close() error {
	return mapError(c.c.Close())
}

func (c *conn) CloseWrite() error {
	return mapError(c.raw.CloseWrite())
}

func (c *conn) LocalAddr() transport.Addr  { return c.raw.LocalAddr() }
func (c *conn) RemoteAddr() transport.Addr { return c.raw.RemoteAddr() }

func (c *conn) SetReadDeadLine(t time.Time)  { c.raw.SetReadDeadline(t) }
func (c *conn) SetWriteDeadLine(t time.Time) { c.raw.SetWriteDeadline(t) }

func mapError(err error) error {
	switch {
	case err == nil, err == io.EOF:
		return err
	case errors.Is(err, os.ErrDeadlineExceeded):
		return transport.ErrDeadLineExceeded
	case errors.Is(err, net.ErrClosed):
		return transport.ErrConnClosed
	}
	return err
}
