package http

import (
	"slices"
	"strings"

	"httpkit/application/util/rule"
)

// ValueSeparator splits a field value into list elements.
type ValueSeparator byte

const (
	CommaSeparator     ValueSeparator = ','
	SemicolonSeparator ValueSeparator = ';'
)

type ParseOptions struct {
	// Separator splits field values into elements.
	Separator ValueSeparator

	// UnsplitFields are kept as a single element per line.
	// They hold dates or cookies whose values may contain the separator.
	UnsplitFields []string
}

var DefaultParseOptions = ParseOptions{
	Separator: CommaSeparator,
	UnsplitFields: []string{
		"Date", "Expires", "Last-Modified", "If-Modified-Since",
		"If-Unmodified-Since", "Retry-After", "Set-Cookie", "Cookie",
	},
}

// Headers maps a field name to its ordered values.
// Names are canonicalised (e.g. "content-type" becomes "Content-Type") when
// they are valid tokens. The zero value is ready to use.
type Headers struct{ underlying map[string][]string }

func NewHeaders(initial map[string][]string) Headers {
	var h Headers
	for k, v := range initial {
		h.Insert(k, v...)
	}
	return h
}

// Add appends a single value.
func (h *Headers) Add(name, value string) {
	h.Insert(name, value)
}

// Insert appends values after the existing ones.
func (h *Headers) Insert(name string, values ...string) {
	if h.underlying == nil {
		h.underlying = make(map[string][]string)
	}
	name = rule.CanonicalFieldName(name)
	h.underlying[name] = append(h.underlying[name], values...)
}

// Set replaces all values.
func (h *Headers) Set(name string, values ...string) {
	if h.underlying == nil {
		h.underlying = make(map[string][]string)
	}
	h.underlying[rule.CanonicalFieldName(name)] = slices.Clone(values)
}

func (h *Headers) Del(name string) {
	delete(h.underlying, rule.CanonicalFieldName(name))
}

// Get returns a copy of the values of name.
func (h Headers) Get(name string) ([]string, bool) {
	v, ok := h.underlying[rule.CanonicalFieldName(name)]
	return slices.Clone(v), ok
}

// GetFirst assumes the field is a singleton field.
func (h Headers) GetFirst(name string) (string, bool) {
	v, ok := h.underlying[rule.CanonicalFieldName(name)]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// GetLine joins the values with ','.
func (h Headers) GetLine(name string) (string, bool) {
	v, ok := h.underlying[rule.CanonicalFieldName(name)]
	if !ok {
		return "", false
	}
	return strings.Join(v, ","), true
}

func (h Headers) Has(name string) bool {
	_, ok := h.underlying[rule.CanonicalFieldName(name)]
	return ok
}

// Len returns the number of distinct names.
func (h Headers) Len() int { return len(h.underlying) }

// Names returns sorted names.
func (h Headers) Names() []string {
	names := make([]string, 0, len(h.underlying))
	for k := range h.underlying {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (h Headers) Clone() Headers {
	var clone Headers
	for k, v := range h.underlying {
		clone.Set(k, v...)
	}
	return clone
}

// Merge returns a copy of h with the values of other appended.
func (h Headers) Merge(other Headers) Headers {
	merged := h.Clone()
	for k, v := range other.underlying {
		merged.Insert(k, v...)
	}
	return merged
}

// Contains reports whether every name of sub exists in h with the same values.
func (h Headers) Contains(sub Headers) bool {
	for k, v := range sub.underlying {
		got, ok := h.underlying[k]
		if !ok || !slices.Equal(got, v) {
			return false
		}
	}
	return true
}

// Lines renders sorted field lines without terminators.
// Set-Cookie is written one line per value.
func (h Headers) Lines() []string {
	lines := make([]string, 0, len(h.underlying))
	for _, name := range h.Names() {
		values := h.underlying[name]
		if name == "Set-Cookie" {
			for _, v := range values {
				lines = append(lines, name+": "+v)
			}
			continue
		}
		lines = append(lines, name+": "+strings.Join(values, ", "))
	}
	return lines
}

// ParseHeaderLine parses "Name: v1, v2" without its line terminator.
func ParseHeaderLine(line string, opts ParseOptions) (name string, values []string, err error) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return "", nil, NewParseError(InvalidHeaderFormat, line)
	}

	// No whitespace is allowed between field name and colon.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
	if !rule.IsValidToken(name) {
		return "", nil, NewParseError(InvalidHeaderFormat, line)
	}
	name = rule.CanonicalFieldName(name)

	if !rule.IsValidFieldValue(value) {
		return "", nil, NewParseError(InvalidHeaderFormat, line)
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-3
	value = rule.TrimOWS(value)

	if slices.Contains(opts.UnsplitFields, name) || opts.Separator == 0 {
		if value != "" {
			values = []string{value}
		}
		return name, values, nil
	}

	for _, elem := range strings.Split(value, string(opts.Separator)) {
		if elem = rule.TrimOWS(elem); elem != "" {
			values = append(values, elem)
		}
	}

	return name, values, nil
}

// ParseHeaders reads field lines until an empty line or the end of input.
// rest starts right after the empty line.
func ParseHeaders(input string, opts ParseOptions) (rest string, h Headers, err error) {
	rest = input
	for rest != "" {
		line, after, found := strings.Cut(rest, "\r\n")
		if !found {
			// Last line without terminator.
			after = ""
		}
		rest = after

		if line == "" {
			break
		}

		name, values, err := ParseHeaderLine(line, opts)
		if err != nil {
			return input, Headers{}, err
		}
		h.Insert(name, values...)
	}

	return rest, h, nil
}
