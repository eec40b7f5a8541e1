// Package transport defines the stream connections the HTTP actors run on.
package transport

// Addr is an endpoint address. *net.TCPAddr satisfies it.
type Addr interface {
	Network() string
	String() string
}
