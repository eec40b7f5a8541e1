package http

import "fmt"

type ErrorKind uint8

const (
	InvalidVersion ErrorKind = iota + 1
	InvalidStatusCode
	InvalidPort
	InvalidHeaderFormat
	MalformedStartLine
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidVersion:
		return "invalid http version"
	case InvalidStatusCode:
		return "invalid status code"
	case InvalidPort:
		return "invalid port"
	case InvalidHeaderFormat:
		return "invalid header format"
	case MalformedStartLine:
		return "malformed start line"
	}
	return "unknown parse error"
}

// ParseError reports which grammar element failed and the offending text.
type ParseError struct {
	Kind    ErrorKind
	Literal string
}

func (e *ParseError) Error() string {
	if e.Literal == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Literal)
}

// Is matches any ParseError of the same kind,
// so errors.Is(err, ErrInvalidVersion) works regardless of the literal.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func NewParseError(kind ErrorKind, literal string) *ParseError {
	return &ParseError{Kind: kind, Literal: literal}
}

var (
	ErrInvalidVersion      = &ParseError{Kind: InvalidVersion}
	ErrInvalidStatusCode   = &ParseError{Kind: InvalidStatusCode}
	ErrInvalidPort         = &ParseError{Kind: InvalidPort}
	ErrInvalidHeaderFormat = &ParseError{Kind: InvalidHeaderFormat}
	ErrMalformedStartLine  = &ParseError{Kind: MalformedStartLine}
)
