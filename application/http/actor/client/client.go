package client

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"sync"

	"httpkit/application/http"
	"httpkit/application/http/semantic"
	"httpkit/application/util/domain"
	"httpkit/application/util/uri"
	"httpkit/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported scheme")
	ErrMissingHost       = errors.New("target has no host")
)

// Client opens a connection per request and keeps the cookies servers set.
// It is safe for concurrent use.
type Client struct {
	dialer transport.ConnDialer
	logger *slog.Logger
	clock  clock.Clock
	opts   Options

	requests semantic.RequestFactory

	mu  sync.Mutex
	jar semantic.CookieJar
}

func New(d transport.ConnDialer, logger *slog.Logger, clock clock.Clock, opts Options) *Client {
	return &Client{
		dialer:   d,
		logger:   logger,
		clock:    clock,
		opts:     opts,
		requests: semantic.NewRequestFactory(http.Version11, opts.DefaultHeaders),
	}
}

// Send writes req to the host of its target, half-closes and reads the
// response. Cookies from the jar are attached and Set-Cookie values are
// stored back.
func (c *Client) Send(ctx context.Context, req semantic.Request) (semantic.Response, error) {
	dest, err := destination(req.Target)
	if err != nil {
		return semantic.Response{}, errors.Wrap(err, "resolving destination")
	}

	dest, err = c.resolve(ctx, dest)
	if err != nil {
		return semantic.Response{}, errors.Wrap(err, "resolving destination")
	}

	wire := c.prepare(req, dest)
	logger := c.logger.With("addr", dest.addr)

	conn, err := c.dialer.Dial(ctx, dest.addr)
	if err != nil {
		return semantic.Response{}, errors.Wrap(err, "dialing")
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger.Debug("sending request", "method", wire.Method, "target", wire.Target.String())

	res, err := c.roundtrip(conn, wire)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return semantic.Response{}, ctxErr
		}
		return semantic.Response{}, err
	}

	c.storeCookies(res)
	return res, nil
}

func (c *Client) roundtrip(conn transport.Conn, req semantic.Request) (semantic.Response, error) {
	if timeout := c.opts.Timeout.WriteTimeout; timeout > 0 {
		conn.SetWriteDeadLine(c.clock.Now().Add(timeout))
	}

	enc := http.NewEncoder(conn)
	if err := enc.Encode(req.StartLine(), req.Headers, req.Body); err != nil {
		return semantic.Response{}, errors.Wrap(err, "sending request")
	}

	// The server reads the request up to our end of stream.
	if err := conn.CloseWrite(); err != nil {
		return semantic.Response{}, errors.Wrap(err, "shutting down writing")
	}

	if timeout := c.opts.Timeout.ReadTimeout; timeout > 0 {
		conn.SetReadDeadLine(c.clock.Now().Add(timeout))
	}

	frame := c.opts.Frame
	if req.Method == http.MethodHead {
		// Content-Length describes a body that is never sent.
		frame.Framing = http.FrameToEOF
	}

	raw, err := http.ReadFrame(conn, true, frame)
	if err != nil {
		return semantic.Response{}, errors.Wrap(err, "receiving response")
	}

	res, err := semantic.ParseResponse(string(raw), c.opts.Parse)
	if err != nil {
		return semantic.Response{}, errors.Wrap(err, "receiving response")
	}

	return res, nil
}

// prepare turns req into what goes on the wire: origin-form target,
// Host, cookies and Content-Length.
func (c *Client) prepare(req semantic.Request, dest destinationAddr) semantic.Request {
	target := uri.URI{Path: req.Target.Path, Query: req.Target.Query}
	if target.Path.Resource == "" {
		target.Path.Resource = "/"
	}
	wire := req.WithTarget(target, true)

	if !wire.Headers.Has("Host") {
		wire.Headers.Set("Host", dest.host)
	}

	c.mu.Lock()
	if c.jar.Len() > 0 {
		values, _ := wire.Headers.Get("Cookie")
		values = append(values, c.jar.Header())
		wire.Headers.Set("Cookie", strings.Join(values, "; "))
	}
	c.mu.Unlock()

	if len(wire.Body) > 0 || wire.Method.RequestHasBody() {
		wire.EnsureContentLength()
	}

	return wire
}

func (c *Client) storeCookies(res semantic.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cookie := range res.SetCookies() {
		c.jar.Set(cookie)
	}
}

// Cookies returns the cookies kept so far, sorted by name.
func (c *Client) Cookies() []semantic.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jar.Cookies()
}

type destinationAddr struct {
	addr string // dialed address.
	host string // Host header value.

	name string
	port uint16
}

// destination resolves where target is sent. Only plain http is supported.
func destination(target uri.URI) (destinationAddr, error) {
	scheme := strings.ToLower(target.Scheme)
	if scheme != "http" {
		return destinationAddr{}, errors.Wrapf(ErrUnsupportedScheme, "%q", target.Scheme)
	}

	if target.Authority == nil || target.Authority.Host == "" {
		return destinationAddr{}, ErrMissingHost
	}

	host, err := normalizeHost(target.Authority.Host)
	if err != nil {
		return destinationAddr{}, err
	}

	port, _ := uri.DefaultPort(scheme)
	hostHeader := host
	if ip, err := netip.ParseAddr(host); err == nil && ip.Is6() {
		hostHeader = "[" + host + "]"
	}
	if p := target.Authority.Port; p != nil {
		port = *p
		hostHeader += ":" + strconv.FormatUint(uint64(port), 10)
	}

	return destinationAddr{
		addr: net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)),
		host: hostHeader,
		name: host,
		port: port,
	}, nil
}

func (c *Client) resolve(ctx context.Context, dest destinationAddr) (destinationAddr, error) {
	if c.opts.Lookuper == nil {
		return dest, nil
	}
	if _, err := netip.ParseAddr(dest.name); err == nil {
		return dest, nil
	}

	addrs, err := c.opts.Lookuper.LookupIP(ctx, dest.name)
	switch {
	case errors.Is(err, domain.ErrDomainNotFound):
		return dest, nil
	case err != nil:
		return dest, errors.Wrap(err, "looking up host")
	case len(addrs) == 0:
		return dest, nil
	}

	dest.addr = net.JoinHostPort(addrs[0].String(), strconv.FormatUint(uint64(dest.port), 10))
	return dest, nil
}

// normalizeHost strips IPv6 brackets and converts names to their
// ASCII form.
// Reference: https://datatracker.ietf.org/doc/html/rfc5891
func normalizeHost(host string) (string, error) {
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if ip, err := netip.ParseAddr(host); err == nil {
		return ip.String(), nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", errors.Wrapf(uri.ErrInvalidHost, "%q: %s", host, err)
	}
	return ascii, nil
}

func (c *Client) do(ctx context.Context, method http.Method, target string, headers http.Headers, body []byte) (semantic.Response, error) {
	u, err := uri.Parse(target)
	if err != nil {
		return semantic.Response{}, errors.Wrap(err, "parsing target")
	}

	req := c.requests.Build(method, u, headers, body)
	return c.Send(ctx, req)
}

func (c *Client) Get(ctx context.Context, target string, headers http.Headers) (semantic.Response, error) {
	return c.do(ctx, http.MethodGet, target, headers, nil)
}

func (c *Client) Head(ctx context.Context, target string, headers http.Headers) (semantic.Response, error) {
	return c.do(ctx, http.MethodHead, target, headers, nil)
}

func (c *Client) Delete(ctx context.Context, target string, headers http.Headers) (semantic.Response, error) {
	return c.do(ctx, http.MethodDelete, target, headers, nil)
}

func (c *Client) Post(ctx context.Context, target string, headers http.Headers, body []byte) (semantic.Response, error) {
	return c.do(ctx, http.MethodPost, target, headers, body)
}

func (c *Client) Put(ctx context.Context, target string, headers http.Headers, body []byte) (semantic.Response, error) {
	return c.do(ctx, http.MethodPut, target, headers, body)
}

func (c *Client) Patch(ctx context.Context, target string, headers http.Headers, body []byte) (semantic.Response, error) {
	return c.do(ctx, http.MethodPatch, target, headers, body)
}
