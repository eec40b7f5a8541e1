package semantic

import (
	"bytes"
	"slices"
	"strconv"

	"httpkit/application/http"

	"github.com/pkg/errors"
)

// Message is what requests and responses share.
// The With* methods return updated copies and never share the header map
// with the receiver.
type Message struct {
	Version http.Version
	Headers http.Headers
	Body    []byte
}

func (m Message) clone() Message {
	return Message{
		Version: m.Version,
		Headers: m.Headers.Clone(),
		Body:    slices.Clone(m.Body),
	}
}

func (m Message) WithVersion(v http.Version) Message {
	m = m.clone()
	m.Version = v
	return m
}

// WithHeaders replaces all headers.
func (m Message) WithHeaders(h http.Headers) Message {
	m = m.clone()
	m.Headers = h.Clone()
	return m
}

func (m Message) WithAddedHeader(name string, values ...string) Message {
	m = m.clone()
	m.Headers.Insert(name, values...)
	return m
}

func (m Message) WithoutHeader(name string) Message {
	m = m.clone()
	m.Headers.Del(name)
	return m
}

func (m Message) WithBody(body []byte) Message {
	m = m.clone()
	m.Body = slices.Clone(body)
	return m
}

func (m Message) HeaderLine(name string) (string, bool) {
	return m.Headers.GetLine(name)
}

func (m Message) HasHeader(name string) bool {
	return m.Headers.Has(name)
}

// EnsureContentLength sets Content-Length to the body length.
func (m *Message) EnsureContentLength() {
	m.Headers.Set("Content-Length", strconv.Itoa(len(m.Body)))
}

func (m Message) encode(startLine string) []byte {
	buf := bytes.NewBuffer(nil)
	// Writing to bytes.Buffer never fails.
	_ = http.NewEncoder(buf).Encode(startLine, m.Headers, m.Body)
	return buf.Bytes()
}

type ParseMessageOptions struct {
	http.ParseOptions
	RequiredFields []string
}

var DefaultParseMessageOptions = ParseMessageOptions{
	ParseOptions: http.DefaultParseOptions,
}

// parseMessage reads headers and takes the rest as body.
// input starts right after the start line.
func parseMessage(input string, ver http.Version, opts ParseMessageOptions) (Message, error) {
	rest, headers, err := http.ParseHeaders(input, opts.ParseOptions)
	if err != nil {
		return Message{}, err
	}

	if err := assertHeaderContains(headers, opts.RequiredFields); err != nil {
		return Message{}, errors.Wrap(err, "header has missing fields")
	}

	msg := Message{Version: ver, Headers: headers}
	if rest != "" {
		msg.Body = []byte(rest)
	}
	return msg, nil
}

func assertHeaderContains(h http.Headers, keys []string) error {
	missing := make([]string, 0)
	for _, key := range keys {
		if !h.Has(key) {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return errors.Errorf("missing key(s): %s", missing)
	}

	return nil
}

// cutLineEnd consumes the CRLF ending a start line.
// A start line at the very end of input is accepted.
func cutLineEnd(input string) (string, bool) {
	if input == "" {
		return "", true
	}
	if len(input) >= 2 && input[:2] == "\r\n" {
		return input[2:], true
	}
	return input, false
}
