package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadersAccumulate(t *testing.T) {
	var h Headers
	h.Add("X", "1")
	h.Add("X", "2")

	line, ok := h.GetLine("X")
	require.True(t, ok)
	assert.Equal(t, "1,2", line)
	assert.Equal(t, 1, h.Len())
}

func TestHeadersCanonicalName(t *testing.T) {
	var h Headers
	h.Add("content-type", "text/plain")

	assert.True(t, h.Has("Content-Type"))
	assert.True(t, h.Has("CONTENT-TYPE"))
	assert.Equal(t, []string{"Content-Type"}, h.Names())
}

func TestHeadersSetInsertDel(t *testing.T) {
	var h Headers
	h.Insert("Accept", "a", "b")
	h.Insert("Accept", "c")

	values, ok := h.Get("Accept")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, values)

	h.Set("Accept", "d")
	values, _ = h.Get("Accept")
	assert.Equal(t, []string{"d"}, values)

	first, ok := h.GetFirst("Accept")
	assert.True(t, ok)
	assert.Equal(t, "d", first)

	h.Del("accept")
	assert.False(t, h.Has("Accept"))
	assert.Equal(t, 0, h.Len())

	_, ok = h.GetLine("Accept")
	assert.False(t, ok)
}

func TestHeadersGetReturnsCopy(t *testing.T) {
	var h Headers
	h.Add("X", "1")

	values, _ := h.Get("X")
	values[0] = "changed"

	line, _ := h.GetLine("X")
	assert.Equal(t, "1", line)
}

func TestHeadersMerge(t *testing.T) {
	defaults := NewHeaders(map[string][]string{"Server": {"httpkit"}, "X": {"1"}})
	callsite := NewHeaders(map[string][]string{"X": {"2"}, "Y": {"3"}})

	merged := defaults.Merge(callsite)

	x, _ := merged.GetLine("X")
	assert.Equal(t, "1,2", x)
	assert.True(t, merged.Has("Y"))
	assert.True(t, merged.Has("Server"))

	// Inputs are left untouched.
	x, _ = defaults.GetLine("X")
	assert.Equal(t, "1", x)
	assert.False(t, defaults.Has("Y"))
}

func TestHeadersContains(t *testing.T) {
	h := NewHeaders(map[string][]string{"X-Token": {"a", "b"}, "Y": {"1"}})

	assert.True(t, h.Contains(NewHeaders(map[string][]string{"x-token": {"a", "b"}})))
	assert.False(t, h.Contains(NewHeaders(map[string][]string{"X-Token": {"a"}})))
	assert.False(t, h.Contains(NewHeaders(map[string][]string{"Z": {"1"}})))
	assert.True(t, h.Contains(Headers{}))
}

func TestHeadersLines(t *testing.T) {
	var h Headers
	h.Insert("X-B", "1", "2")
	h.Add("Set-Cookie", "a=1")
	h.Add("Set-Cookie", "b=2")
	h.Add("A", "z")

	assert.Equal(t, []string{
		"A: z",
		"Set-Cookie: a=1",
		"Set-Cookie: b=2",
		"X-B: 1, 2",
	}, h.Lines())
}

func TestParseHeaderLine(t *testing.T) {
	testcases := []struct {
		desc    string
		line    string
		opts    ParseOptions
		name    string
		values  []string
		wantErr bool
	}{
		{
			desc:   "list",
			line:   "Accept: text/html , application/json,,",
			opts:   DefaultParseOptions,
			name:   "Accept",
			values: []string{"text/html", "application/json"},
		},
		{
			desc:   "semicolon separator",
			line:   "cookie: a=1; b=2",
			opts:   ParseOptions{Separator: SemicolonSeparator},
			name:   "Cookie",
			values: []string{"a=1", "b=2"},
		},
		{
			desc:   "unsplit date",
			line:   "Date: Tue, 15 Nov 1994 08:12:31 GMT",
			opts:   DefaultParseOptions,
			name:   "Date",
			values: []string{"Tue, 15 Nov 1994 08:12:31 GMT"},
		},
		{
			desc: "empty value",
			line: "X-Empty:",
			opts: DefaultParseOptions,
			name: "X-Empty",
		},
		{
			desc:    "no colon",
			line:    "NoColon",
			opts:    DefaultParseOptions,
			wantErr: true,
		},
		{
			desc:    "whitespace before colon",
			line:    "Host : example.com",
			opts:    DefaultParseOptions,
			wantErr: true,
		},
		{
			desc:    "bare LF in value",
			line:    "X-A: a\nX-Injected: 1",
			opts:    DefaultParseOptions,
			wantErr: true,
		},
		{
			desc:    "bare CR in value",
			line:    "X-A: a\rb",
			opts:    DefaultParseOptions,
			wantErr: true,
		},
		{
			desc:    "NUL in value",
			line:    "X-A: a\x00b",
			opts:    DefaultParseOptions,
			wantErr: true,
		},
		{
			desc:   "cookie value with comma",
			line:   "Cookie: list=a,b; sid=x",
			opts:   DefaultParseOptions,
			name:   "Cookie",
			values: []string{"list=a,b; sid=x"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			name, values, err := ParseHeaderLine(tc.line, tc.opts)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHeaderFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.name, name)
			assert.Equal(t, tc.values, values)
		})
	}
}

func TestParseHeaders(t *testing.T) {
	rest, h, err := ParseHeaders("X: 1\r\nX: 2\r\nHost: a\r\n\r\nbody\r\n", DefaultParseOptions)
	require.NoError(t, err)
	assert.Equal(t, "body\r\n", rest)

	x, _ := h.GetLine("X")
	assert.Equal(t, "1,2", x)
	assert.Equal(t, 2, h.Len())
}

func TestParseHeadersWithoutEmptyLine(t *testing.T) {
	rest, h, err := ParseHeaders("Host: a\r\nX: 1", DefaultParseOptions)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, 2, h.Len())
}

func TestParseHeadersMalformed(t *testing.T) {
	testcases := []struct {
		desc  string
		input string
	}{
		{desc: "line without colon", input: "Host: a\r\nbroken\r\n\r\n"},
		{desc: "line ended by bare LF", input: "X-A: a\nX-Injected: 1\r\n\r\n"},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			rest, _, err := ParseHeaders(tc.input, DefaultParseOptions)
			assert.ErrorIs(t, err, ErrInvalidHeaderFormat)
			assert.Equal(t, tc.input, rest)
		})
	}
}
