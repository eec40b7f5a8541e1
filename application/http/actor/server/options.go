package server

import (
	"time"

	"httpkit/application/http"
	"httpkit/application/http/semantic"
)

type Options struct {
	Frame http.FrameOptions
	Parse semantic.ParseRequestOptions

	Timeout TimeoutOptions

	// SessionCookie names the cookie carrying the session id.
	SessionCookie string

	// Services is handed to every controller through RequestContext.
	Services any
}

// TimeoutOptions bound socket reads and writes. Zero means no timeout.
type TimeoutOptions struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

var DefaultOptions = Options{
	Frame:         http.DefaultFrameOptions,
	Parse:         semantic.DefaultParseRequestOptions,
	SessionCookie: "sid",
}
