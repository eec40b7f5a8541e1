package pipe

import (
	"context"
	"strconv"
	"sync"

	"httpkit/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type dialRequest struct {
	conn     transport.Conn
	accepted chan struct{}
}

// Transport connects dialers and listeners by name.
type Transport struct {
	listeners map[string]*Listener
	clock     clock.Clock
	dials     int

	mu sync.Mutex
}

var _ transport.ConnDialer = (*Transport)(nil)

func NewTransport(clock clock.Clock) *Transport {
	return &Transport{
		listeners: make(map[string]*Listener),
		clock:     clock,
	}
}

func (t *Transport) Dial(ctx context.Context, addr string) (transport.Conn, error) {
	t.mu.Lock()
	listener, ok := t.listeners[addr]
	t.dials++
	local := "dialer-" + strconv.Itoa(t.dials)
	t.mu.Unlock()

	if !ok {
		return nil, errors.Wrapf(transport.ErrConnRefused, "dialing %q", addr)
	}

	c1, c2 := Pipe(local, addr, t.clock)
	req := dialRequest{conn: c2, accepted: make(chan struct{})}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-listener.closed:
		return nil, errors.Wrapf(transport.ErrConnRefused, "dialing %q", addr)
	case listener.requests <- req:
	}

	select {
	case <-ctx.Done():
		c1.Close()
		return nil, ctx.Err()
	case <-req.accepted:
	}

	return c1, nil
}

func (t *Transport) Listen(name string) (*Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.listeners[name]; ok {
		return nil, errors.Wrapf(transport.ErrAddrAlreadyInUse, "listening on %q", name)
	}

	l := &Listener{
		addr:      Addr{Name: name},
		transport: t,
		requests:  make(chan dialRequest),
		closed:    make(chan struct{}),
	}
	t.listeners[name] = l

	return l, nil
}

type Listener struct {
	addr      Addr
	transport *Transport

	requests chan dialRequest
	closed   chan struct{}
	once     sync.Once
}

var _ transport.ConnListener = (*Listener)(nil)

func (l *Listener) Addr() transport.Addr { return l.addr }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, transport.ErrConnListenerClosed
	case req := <-l.requests:
		close(req.accepted)
		return req.conn, nil
	}
}

func (l *Listener) Close() error {
	err := transport.ErrConnListenerClosed
	l.once.Do(func() {
		close(l.closed)

		l.transport.mu.Lock()
		delete(l.transport.listeners, l.addr.Name)
		l.transport.mu.Unlock()

		err = nil
	})
	return err
}
