package semantic

import (
	"maps"
	"strings"

	"httpkit/application/http"
	"httpkit/application/util/uri"

	"github.com/pkg/errors"
)

type Request struct {
	Method http.Method
	Target uri.URI
	Message

	// Params holds the captures of the matched route. It's never serialized.
	Params map[string]string
}

type ParseRequestOptions struct {
	ParseMessageOptions

	// MaxURILen limits the request target. Zero means no limit.
	MaxURILen uint
}

var DefaultParseRequestOptions = ParseRequestOptions{
	ParseMessageOptions: DefaultParseMessageOptions,
	MaxURILen:           8000,
}

var ErrURITooLong = errors.New("uri too long")

// ParseRequest parses "Method SP Target SP Version CRLF", the header block
// and takes whatever follows the empty line as body.
func ParseRequest(input string, opts ParseRequestOptions) (Request, error) {
	rest, method, err := http.ParseMethod(input)
	if err != nil {
		return Request{}, errors.Wrap(err, "parsing method")
	}

	rest, ok := cutSP(rest)
	if !ok {
		return Request{}, http.NewParseError(http.MalformedStartLine, firstLine(input))
	}

	rawTarget := rest
	if idx := strings.IndexAny(rest, " \r\n"); idx >= 0 {
		rawTarget, rest = rest[:idx], rest[idx:]
	} else {
		rest = ""
	}

	target, err := parseTarget(rawTarget, opts.MaxURILen)
	if err != nil {
		return Request{}, err
	}

	rest, ok = cutSP(rest)
	if !ok {
		return Request{}, http.NewParseError(http.MalformedStartLine, firstLine(input))
	}

	rest, ver, err := http.ParseVersion(rest)
	if err != nil {
		return Request{}, errors.Wrap(err, "parsing version")
	}

	rest, ok = cutLineEnd(strings.TrimLeft(rest, " "))
	if !ok {
		return Request{}, http.NewParseError(http.MalformedStartLine, firstLine(input))
	}

	msg, err := parseMessage(rest, ver, opts.ParseMessageOptions)
	if err != nil {
		return Request{}, errors.Wrap(err, "parsing message")
	}

	return Request{Method: method, Target: target, Message: msg}, nil
}

func parseTarget(raw string, maxLen uint) (uri.URI, error) {
	if maxLen > 0 && uint(len(raw)) > maxLen {
		return uri.URI{}, ErrURITooLong
	}
	if raw == "" {
		return uri.URI{}, http.NewParseError(http.MalformedStartLine, raw)
	}

	u, err := uri.Parse(raw)
	if err != nil {
		if errors.Is(err, uri.ErrInvalidPort) {
			return uri.URI{}, http.NewParseError(http.InvalidPort, raw)
		}
		return uri.URI{}, errors.Wrap(http.NewParseError(http.MalformedStartLine, raw), err.Error())
	}

	return u, nil
}

// cutSP consumes one or more SP.
func cutSP(s string) (string, bool) {
	trimmed := strings.TrimLeft(s, " ")
	return trimmed, len(trimmed) < len(s)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\r\n")
	return line
}

func (r Request) StartLine() string {
	target := r.Target.String()
	if target == "" {
		target = "/"
	}
	return r.Method.String() + " " + target + " " + r.Version.String()
}

// Bytes serializes the request.
func (r Request) Bytes() []byte {
	return r.encode(r.StartLine())
}

func (r Request) String() string { return string(r.Bytes()) }

// Host returns the Host header, or the target's authority when absent.
func (r Request) Host() string {
	if h, ok := r.Headers.GetFirst("Host"); ok {
		return h
	}
	if r.Target.Authority != nil {
		return r.Target.Authority.HostPort()
	}
	return ""
}

// Cookies parses every Cookie header value.
func (r Request) Cookies() CookieJar {
	values, _ := r.Headers.Get("Cookie")
	return ParseCookieJar(strings.Join(values, "; "))
}

func (r Request) with(msg Message) Request {
	r.Message = msg
	r.Params = maps.Clone(r.Params)
	return r
}

func (r Request) WithMethod(m http.Method) Request {
	out := r.with(r.Message.clone())
	out.Method = m
	return out
}

// WithTarget replaces the target. Host is updated from the new authority
// unless preserveHost is set and the request already has one.
func (r Request) WithTarget(target uri.URI, preserveHost bool) Request {
	out := r.with(r.Message.clone())
	out.Target = target

	if target.Authority == nil || target.Authority.Host == "" {
		return out
	}
	if preserveHost && out.Headers.Has("Host") {
		return out
	}
	out.Headers.Set("Host", target.Authority.HostPort())
	return out
}

func (r Request) WithVersion(v http.Version) Request {
	return r.with(r.Message.WithVersion(v))
}

func (r Request) WithHeaders(h http.Headers) Request {
	return r.with(r.Message.WithHeaders(h))
}

func (r Request) WithAddedHeader(name string, values ...string) Request {
	return r.with(r.Message.WithAddedHeader(name, values...))
}

func (r Request) WithoutHeader(name string) Request {
	return r.with(r.Message.WithoutHeader(name))
}

func (r Request) WithBody(body []byte) Request {
	return r.with(r.Message.WithBody(body))
}
