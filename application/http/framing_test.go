package http

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFrame(t *testing.T) {
	testcases := []struct {
		desc      string
		input     string
		bodyToEOF bool
		opts      FrameOptions
		expected  string
		wantErr   error
	}{
		{
			desc:     "request without body",
			input:    "GET / HTTP/1.1\r\nHost: a\r\n\r\ntrailing",
			opts:     DefaultFrameOptions,
			expected: "GET / HTTP/1.1\r\nHost: a\r\n\r\n",
		},
		{
			desc:     "request with content length",
			input:    "POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhelloEXTRA",
			opts:     DefaultFrameOptions,
			expected: "POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello",
		},
		{
			desc:      "response to end of stream",
			input:     "HTTP/1.1 200 OK\r\n\r\nall of it",
			bodyToEOF: true,
			opts:      DefaultFrameOptions,
			expected:  "HTTP/1.1 200 OK\r\n\r\nall of it",
		},
		{
			desc:     "head without empty line",
			input:    "GET / HTTP/1.1\r\nHost: a\r\n",
			opts:     DefaultFrameOptions,
			expected: "GET / HTTP/1.1\r\nHost: a\r\n",
		},
		{
			desc:     "read to eof mode",
			input:    "POST / HTTP/1.1\r\n\r\nno length",
			opts:     FrameOptions{Framing: FrameToEOF},
			expected: "POST / HTTP/1.1\r\n\r\nno length",
		},
		{
			desc:    "head too large",
			input:   "GET / HTTP/1.1\r\nX: " + strings.Repeat("a", 100) + "\r\n\r\n",
			opts:    FrameOptions{MaxHeadLength: 32},
			wantErr: ErrHeadTooLarge,
		},
		{
			desc:    "body too large",
			input:   "POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\n",
			opts:    FrameOptions{MaxBodyLength: 10},
			wantErr: ErrBodyTooLarge,
		},
		{
			desc:    "incomplete body",
			input:   "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc",
			opts:    DefaultFrameOptions,
			wantErr: ErrIncompleteBody,
		},
		{
			desc:    "conflicting content length",
			input:   "POST / HTTP/1.1\r\nContent-Length: 1, 2\r\n\r\nab",
			opts:    DefaultFrameOptions,
			wantErr: ErrInvalidHeaderFormat,
		},
		{
			desc:      "response with transfer coding reads to end",
			input:     "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nTransfer-Encoding: chunked\r\n\r\n1\r\nz\r\n0\r\n\r\n",
			bodyToEOF: true,
			opts:      DefaultFrameOptions,
			expected:  "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nTransfer-Encoding: chunked\r\n\r\n1\r\nz\r\n0\r\n\r\n",
		},
		{
			desc:    "request with transfer coding",
			input:   "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n",
			opts:    DefaultFrameOptions,
			wantErr: ErrUnsupportedTransferCoding,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			b, err := ReadFrame(bytes.NewReader([]byte(tc.input)), tc.bodyToEOF, tc.opts)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(b))
		})
	}
}
