package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrConnClosed         = errors.New("connection is closed")
	ErrConnListenerClosed = errors.New("conn listener is closed")
	ErrDeadLineExceeded   = errors.New("deadline exceeded")
	ErrConnRefused        = errors.New("connection refused")
	ErrAddrAlreadyInUse   = errors.New("address already in use")
)

// Conn is a full-duplex byte stream.
// Read returns io.EOF once the peer stops writing. Using a closed Conn
// returns ErrConnClosed and a passed deadline returns ErrDeadLineExceeded.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error

	// CloseWrite shuts down the writing side only; reading keeps working.
	CloseWrite() error

	LocalAddr() Addr
	RemoteAddr() Addr

	// A zero time means no deadline.
	SetReadDeadLine(t time.Time)
	SetWriteDeadLine(t time.Time)
}

type ConnListener interface {
	// Accept blocks until a connection arrives, ctx is done or the
	// listener is closed.
	Accept(ctx context.Context) (Conn, error)
	Addr() Addr
	Close() error
}

type ConnDialer interface {
	Dial(ctx context.Context, addr string) (Conn, error)
}
