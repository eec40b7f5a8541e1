package client

import (
	"time"

	"httpkit/application/http"
	"httpkit/application/http/semantic"
	"httpkit/application/util/domain"
)

type Options struct {
	Frame http.FrameOptions
	Parse semantic.ParseMessageOptions

	Timeout TimeoutOptions

	// DefaultHeaders are sent with every request built by the client.
	DefaultHeaders http.Headers

	// Lookuper overrides name resolution. Names it knows are dialed at
	// their first address, the rest are handed to the dialer as is.
	Lookuper domain.Lookuper
}

// TimeoutOptions bound socket reads and writes. Zero means no timeout.
type TimeoutOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

var DefaultOptions = Options{
	Frame: http.DefaultFrameOptions,
	Parse: semantic.DefaultParseMessageOptions,
}
