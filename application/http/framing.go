package http

import (
	"io"
	"strconv"
	"strings"

	"httpkit/application/util/rule"
	iolib "httpkit/lib/io"

	"github.com/pkg/errors"
)

// Framing decides where a message read from a connection ends.
type Framing uint8

const (
	// FrameByContentLength reads the head up to the empty line and then
	// Content-Length bytes of body.
	FrameByContentLength Framing = iota
	// FrameToEOF reads until the peer closes its write side.
	FrameToEOF
)

type FrameOptions struct {
	Framing Framing

	// MaxHeadLength limits the bytes read before the empty line. Zero means no limit.
	MaxHeadLength uint

	// MaxBodyLength limits the body. Zero means no limit.
	MaxBodyLength uint
}

var DefaultFrameOptions = FrameOptions{
	Framing:       FrameByContentLength,
	MaxHeadLength: 64 * 1024,
	MaxBodyLength: 8 * 1024 * 1024,
}

var (
	ErrHeadTooLarge   = errors.New("message head exceeds limit")
	ErrBodyTooLarge   = errors.New("message body exceeds limit")
	ErrIncompleteBody = errors.New("connection closed before the whole body was read")

	// ErrUnsupportedTransferCoding is returned for a request carrying
	// Transfer-Encoding. No transfer coding is decoded.
	ErrUnsupportedTransferCoding = errors.New("transfer coding is unsupported")
)

// ReadFrame reads the raw bytes of one message from r.
// bodyToEOF tells whether a message without Content-Length carries a body up
// to the end of stream, which is the case for responses.
func ReadFrame(r io.Reader, bodyToEOF bool, opts FrameOptions) ([]byte, error) {
	if opts.Framing == FrameToEOF {
		return readToEOF(r, opts.MaxHeadLength+opts.MaxBodyLength)
	}

	ur := iolib.NewUntilReader(r)
	head, err := ur.ReadUntilLimit(rule.EndOfHead, opts.MaxHeadLength)
	switch {
	case errors.Is(err, iolib.ErrLimitExceeded):
		return nil, ErrHeadTooLarge
	case err == io.EOF:
		// Peer closed without an empty line. Everything is head.
		return head, nil
	case err != nil:
		return nil, errors.Wrap(err, "reading head")
	}

	headers, err := headSection(string(head))
	if err != nil {
		return nil, err
	}

	// Transfer-Encoding overrides Content-Length. A response body we cannot
	// decode is still delimited by the end of stream.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.3-2.4.2
	if values, ok := headers.Get("Transfer-Encoding"); ok {
		if !bodyToEOF {
			return nil, errors.Wrapf(ErrUnsupportedTransferCoding, "%q", strings.Join(values, ", "))
		}
		body, err := readToEOF(ur, opts.MaxBodyLength)
		if err != nil {
			return nil, err
		}
		return append(head, body...), nil
	}

	length, ok, err := contentLength(headers)
	if err != nil {
		return nil, err
	}

	if !ok {
		if !bodyToEOF {
			return head, nil
		}
		body, err := readToEOF(ur, opts.MaxBodyLength)
		if err != nil {
			return nil, err
		}
		return append(head, body...), nil
	}

	if opts.MaxBodyLength > 0 && length > uint64(opts.MaxBodyLength) {
		return nil, ErrBodyTooLarge
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(ur, body); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrIncompleteBody
		}
		return nil, errors.Wrap(err, "reading body")
	}

	return append(head, body...), nil
}

func readToEOF(r io.Reader, limit uint) ([]byte, error) {
	if limit == 0 {
		b, err := io.ReadAll(r)
		return b, errors.Wrap(err, "reading to end")
	}

	b, err := io.ReadAll(iolib.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading to end")
	}
	if uint(len(b)) > limit {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}

// headSection parses the header fields of a raw head, skipping its start line.
func headSection(head string) (Headers, error) {
	_, fields, found := strings.Cut(head, "\r\n")
	if !found {
		return Headers{}, nil
	}

	_, headers, err := ParseHeaders(fields, DefaultParseOptions)
	if err != nil {
		return Headers{}, errors.Wrap(err, "parsing headers")
	}

	return headers, nil
}

func contentLength(headers Headers) (length uint64, ok bool, err error) {
	values, ok := headers.Get("Content-Length")
	if !ok || len(values) == 0 {
		return 0, false, nil
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.6-8
	for _, v := range values[1:] {
		if v != values[0] {
			return 0, false, NewParseError(InvalidHeaderFormat, "Content-Length: "+strings.Join(values, ", "))
		}
	}

	length, err = strconv.ParseUint(values[0], 10, 63)
	if err != nil {
		return 0, false, NewParseError(InvalidHeaderFormat, "Content-Length: "+values[0])
	}

	return length, true, nil
}
