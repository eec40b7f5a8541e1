package semantic

import (
	"testing"
	"time"

	"httpkit/application/http"
	"httpkit/application/http/semantic/status"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	input := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nSet-Cookie: sid=1; Path=/\r\n\r\nhello"

	res, err := ParseResponse(input, DefaultParseMessageOptions)
	require.NoError(t, err)

	assert.Equal(t, status.OK, res.Status)
	assert.Equal(t, http.Version11, res.Version)
	assert.Equal(t, []byte("hello"), res.Body)
	assert.Equal(t, []Cookie{{Name: "sid", Value: "1"}}, res.SetCookies())
}

func TestParseResponseCustomStatus(t *testing.T) {
	res, err := ParseResponse("HTTP/1.1 600 My Status\r\n\r\n", DefaultParseMessageOptions)
	require.NoError(t, err)

	assert.Equal(t, status.Custom(600, "My Status"), res.Status)
	assert.Nil(t, res.Body)
}

func TestParseResponseErrors(t *testing.T) {
	testcases := []struct {
		desc    string
		input   string
		wantErr error
	}{
		{
			desc:    "bad version",
			input:   "HTTP/1.5 200 OK\r\n\r\n",
			wantErr: http.ErrInvalidVersion,
		},
		{
			desc:    "bad status",
			input:   "HTTP/1.1 abc\r\n\r\n",
			wantErr: http.ErrInvalidStatusCode,
		},
		{
			desc:    "tab instead of space",
			input:   "HTTP/1.1\t200 OK\r\n\r\n",
			wantErr: http.ErrMalformedStartLine,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := ParseResponse(tc.input, DefaultParseMessageOptions)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	f := NewResponseFactory(http.Version11, http.Headers{})
	res := f.OK(http.Headers{}, []byte("body")).
		WithCookie(Cookie{Name: "sid", Value: "x"}).
		WithCookie(Cookie{Name: "theme", Value: "dark"})
	res.EnsureContentLength()

	assert.Equal(t,
		"HTTP/1.1 200 OK\r\nContent-Length: 4\r\nSet-Cookie: sid=x\r\nSet-Cookie: theme=dark\r\n\r\nbody",
		res.String(),
	)

	parsed, err := ParseResponse(res.String(), DefaultParseMessageOptions)
	require.NoError(t, err)
	assert.Equal(t, res, parsed)
}

func TestResponseDate(t *testing.T) {
	at := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC)
	res := Response{Status: status.OK}.WithAddedHeader("Date", FormatDate(at))

	got, ok, err := res.Date()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Equal(got))

	line, _ := res.HeaderLine("Date")
	assert.Equal(t, "Sun, 06 Nov 1994 08:49:37 GMT", line)
}

func TestResponseWithStatusDoesNotAlias(t *testing.T) {
	res := Response{Status: status.OK}.WithAddedHeader("X", "1")
	changed := res.WithStatus(status.Accepted).WithAddedHeader("X", "2")

	assert.Equal(t, status.OK, res.Status)
	x, _ := res.HeaderLine("X")
	assert.Equal(t, "1", x)
	assert.Equal(t, status.Accepted, changed.Status)
}
