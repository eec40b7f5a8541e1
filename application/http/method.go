package http

import (
	"strings"

	"httpkit/application/util/rule"
)

// Method is a request method. Standard methods are upper case;
// extension methods keep the case they were written with.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

var standardMethods = []Method{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch,
	MethodOptions, MethodHead, MethodConnect, MethodTrace,
}

// MethodFrom normalises standard methods to upper case.
func MethodFrom(s string) Method {
	upper := strings.ToUpper(s)
	for _, m := range standardMethods {
		if string(m) == upper {
			return m
		}
	}
	return Method(s)
}

// ParseMethod reads a method name at the start of input.
func ParseMethod(input string) (rest string, m Method, err error) {
	end := strings.IndexAny(input, " \r\n")
	if end < 0 {
		end = len(input)
	}
	if !rule.IsValidMethodName(input[:end]) {
		return input, "", NewParseError(MalformedStartLine, head(input, 16))
	}

	return input[end:], MethodFrom(input[:end]), nil
}

func (m Method) String() string { return string(m) }

func (m Method) IsStandard() bool {
	for _, s := range standardMethods {
		if s == m {
			return true
		}
	}
	return false
}

func (m Method) in(methods ...Method) bool {
	for _, s := range methods {
		if s == m {
			return true
		}
	}
	return false
}

func (m Method) RequestHasBody() bool {
	return m.in(MethodPost, MethodPut, MethodDelete, MethodPatch)
}

func (m Method) ResponseHasBody() bool {
	return m.IsStandard() && !m.in(MethodHead, MethodConnect)
}

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-9.2.1
func (m Method) IsSafe() bool {
	return m.in(MethodGet, MethodHead, MethodOptions, MethodTrace)
}

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-9.2.2
func (m Method) IsIdempotent() bool {
	return m.IsSafe() || m.in(MethodPut, MethodDelete)
}

func (m Method) IsCacheable() bool {
	return m.in(MethodGet, MethodHead, MethodPost, MethodPatch)
}

// IsHTMLCompatible reports whether an HTML form can submit the method.
func (m Method) IsHTMLCompatible() bool {
	return m.in(MethodGet, MethodPost)
}
