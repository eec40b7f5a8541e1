package semantic

import (
	"strconv"
	"time"

	"httpkit/application/http"
	"httpkit/application/http/semantic/status"

	"github.com/pkg/errors"
)

type Response struct {
	Status status.Status
	Message
}

// ParseResponse parses "Version SP Code [SP Reason] CRLF", the header block
// and takes whatever follows the empty line as body.
func ParseResponse(input string, opts ParseMessageOptions) (Response, error) {
	rest, ver, err := http.ParseVersion(input)
	if err != nil {
		return Response{}, errors.Wrap(err, "parsing version")
	}

	rest, ok := cutSP(rest)
	if !ok {
		return Response{}, http.NewParseError(http.MalformedStartLine, firstLine(input))
	}

	rest, st, err := status.Parse(rest)
	if err != nil {
		return Response{}, errors.Wrap(err, "parsing status")
	}

	rest, ok = cutLineEnd(rest)
	if !ok {
		return Response{}, http.NewParseError(http.MalformedStartLine, firstLine(input))
	}

	msg, err := parseMessage(rest, ver, opts)
	if err != nil {
		return Response{}, errors.Wrap(err, "parsing message")
	}

	return Response{Status: st, Message: msg}, nil
}

func (r Response) StartLine() string {
	return r.Version.String() + " " +
		strconv.FormatUint(uint64(r.Status.Code), 10) + " " +
		r.Status.ReasonPhrase
}

// Bytes serializes the response.
func (r Response) Bytes() []byte {
	return r.encode(r.StartLine())
}

func (r Response) String() string { return string(r.Bytes()) }

// Date returns the parsed Date header.
func (r Response) Date() (time.Time, bool, error) {
	v, ok := r.Headers.GetFirst("Date")
	if !ok {
		return time.Time{}, false, nil
	}

	t, err := ParseDate(v)
	if err != nil {
		return time.Time{}, true, err
	}
	return t, true, nil
}

// SetCookies returns the name and value of every Set-Cookie header.
// Attributes are dropped.
func (r Response) SetCookies() []Cookie {
	values, _ := r.Headers.Get("Set-Cookie")
	cookies := make([]Cookie, 0, len(values))
	for _, v := range values {
		if c, ok := ParseSetCookie(v); ok {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

func (r Response) with(msg Message) Response {
	r.Message = msg
	return r
}

func (r Response) WithStatus(s status.Status) Response {
	out := r.with(r.Message.clone())
	out.Status = s
	return out
}

// WithCookie adds a "Set-Cookie: name=value" header.
func (r Response) WithCookie(c Cookie) Response {
	return r.with(r.Message.WithAddedHeader("Set-Cookie", c.String()))
}

func (r Response) WithVersion(v http.Version) Response {
	return r.with(r.Message.WithVersion(v))
}

func (r Response) WithHeaders(h http.Headers) Response {
	return r.with(r.Message.WithHeaders(h))
}

func (r Response) WithAddedHeader(name string, values ...string) Response {
	return r.with(r.Message.WithAddedHeader(name, values...))
}

func (r Response) WithoutHeader(name string) Response {
	return r.with(r.Message.WithoutHeader(name))
}

func (r Response) WithBody(body []byte) Response {
	return r.with(r.Message.WithBody(body))
}
