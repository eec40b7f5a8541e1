package semantic

import (
	"testing"

	"httpkit/application/http"
	"httpkit/application/util/uri"
	"httpkit/lib/types/pointer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	input := "POST /test.php/foo/bar?a=1&b=2 HTTP/2.0\r\n" +
		"Host: localhost\r\n" +
		"Accept: text/html, application/json\r\n" +
		"\r\n" +
		"name=value"

	req, err := ParseRequest(input, DefaultParseRequestOptions)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, http.Version20, req.Version)
	assert.Equal(t, "/test.php", req.Target.Path.Resource)
	assert.Equal(t, pointer.To("/foo/bar"), req.Target.Path.Info)

	a, ok := req.Target.Query.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", a)

	accept, ok := req.HeaderLine("accept")
	assert.True(t, ok)
	assert.Equal(t, "text/html,application/json", accept)
	assert.Equal(t, "localhost", req.Host())
	assert.Equal(t, []byte("name=value"), req.Body)
}

func TestParseRequestErrors(t *testing.T) {
	testcases := []struct {
		desc    string
		input   string
		opts    ParseRequestOptions
		wantErr error
	}{
		{
			desc:    "missing version",
			input:   "GET /\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrMalformedStartLine,
		},
		{
			desc:    "bad version",
			input:   "GET / HTTP/1.2\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrInvalidVersion,
		},
		{
			desc:    "bad port",
			input:   "GET http://localhost:99999/ HTTP/1.1\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrInvalidPort,
		},
		{
			desc:    "bad header",
			input:   "GET / HTTP/1.1\r\nbroken\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrInvalidHeaderFormat,
		},
		{
			desc:    "header line split by bare LF",
			input:   "GET / HTTP/1.1\r\nX-A: a\nX-Injected: 1\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrInvalidHeaderFormat,
		},
		{
			desc:    "invalid method character",
			input:   "GET! / HTTP/1.1\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrMalformedStartLine,
		},
		{
			desc:    "missing line end",
			input:   "GET / HTTP/1.1 junk\r\n\r\n",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrMalformedStartLine,
		},
		{
			desc:    "empty",
			input:   "",
			opts:    DefaultParseRequestOptions,
			wantErr: http.ErrMalformedStartLine,
		},
		{
			desc:    "uri too long",
			input:   "GET /abcdef HTTP/1.1\r\n\r\n",
			opts:    ParseRequestOptions{MaxURILen: 3},
			wantErr: ErrURITooLong,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ParseRequest(tc.input, tc.opts)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseRequestRequiredFields(t *testing.T) {
	opts := DefaultParseRequestOptions
	opts.RequiredFields = []string{"Host"}

	_, err := ParseRequest("GET / HTTP/1.1\r\n\r\n", opts)
	assert.Error(t, err)

	_, err = ParseRequest("GET / HTTP/1.1\r\nHost: a\r\n\r\n", opts)
	assert.NoError(t, err)
}

func TestRequestRoundTrip(t *testing.T) {
	target, err := uri.Parse("/search?q=go")
	require.NoError(t, err)

	var h http.Headers
	h.Add("Host", "example.com")
	h.Insert("Accept", "a", "b")
	req := NewRequestFactory(http.Version11, http.Headers{}).
		Post(target, h, []byte("payload"))

	assert.Equal(t,
		"POST /search?q=go HTTP/1.1\r\nAccept: a, b\r\nHost: example.com\r\n\r\npayload",
		req.String(),
	)

	parsed, err := ParseRequest(req.String(), DefaultParseRequestOptions)
	require.NoError(t, err)
	assert.Equal(t, req.Method, parsed.Method)
	assert.Equal(t, req.Target, parsed.Target)
	assert.Equal(t, req.Message, parsed.Message)
}

func TestRequestWithDoesNotAlias(t *testing.T) {
	var h http.Headers
	h.Add("X", "1")
	req := Request{Method: http.MethodGet, Message: Message{Version: http.Version11, Headers: h}}

	changed := req.WithAddedHeader("X", "2").WithoutHeader("Y").WithMethod(http.MethodPut)

	x, _ := req.HeaderLine("X")
	assert.Equal(t, "1", x)
	assert.Equal(t, http.MethodGet, req.Method)

	x, _ = changed.HeaderLine("X")
	assert.Equal(t, "1,2", x)
	assert.Equal(t, http.MethodPut, changed.Method)
}

func TestRequestWithTarget(t *testing.T) {
	first, err := uri.Parse("http://a.example:8080/x")
	require.NoError(t, err)
	second, err := uri.Parse("http://b.example/y")
	require.NoError(t, err)

	req := Request{Method: http.MethodGet}.WithTarget(first, false)
	assert.Equal(t, "a.example:8080", req.Host())

	kept := req.WithTarget(second, true)
	assert.Equal(t, "a.example:8080", kept.Host())

	moved := req.WithTarget(second, false)
	assert.Equal(t, "b.example", moved.Host())
	assert.Equal(t, "/y", moved.Target.Path.Resource)
}

func TestRequestCookies(t *testing.T) {
	req, err := ParseRequest("GET / HTTP/1.1\r\nCookie: sid=abc; theme=dark\r\n\r\n", DefaultParseRequestOptions)
	require.NoError(t, err)

	jar := req.Cookies()
	sid, ok := jar.Get("sid")
	assert.True(t, ok)
	assert.Equal(t, "abc", sid)
	assert.Equal(t, 2, jar.Len())
}

func TestRequestCookiesKeepCommas(t *testing.T) {
	req, err := ParseRequest("GET / HTTP/1.1\r\nCookie: list=a,b; sid=x\r\nCookie: theme=dark\r\n\r\n", DefaultParseRequestOptions)
	require.NoError(t, err)

	jar := req.Cookies()
	list, _ := jar.Get("list")
	assert.Equal(t, "a,b", list)
	sid, _ := jar.Get("sid")
	assert.Equal(t, "x", sid)
	assert.Equal(t, 3, jar.Len())
}
