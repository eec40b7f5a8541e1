package http

import "strings"

type Version uint8

const (
	Version09 Version = iota + 1
	Version10
	Version11
	Version20
	Version30
)

var versionText = map[Version]string{
	Version09: "HTTP/0.9",
	Version10: "HTTP/1.0",
	Version11: "HTTP/1.1",
	Version20: "HTTP/2.0",
	Version30: "HTTP/3.0",
}

func (v Version) String() string {
	if text, ok := versionText[v]; ok {
		return text
	}
	return "HTTP/?"
}

func (v Version) Valid() bool {
	_, ok := versionText[v]
	return ok
}

// ParseVersion parses http version text(e.g. "HTTP/1.1") at the start of input.
func ParseVersion(input string) (rest string, v Version, err error) {
	const prefix = "HTTP/"
	if !strings.HasPrefix(input, prefix) {
		return input, 0, NewParseError(InvalidVersion, head(input, len(prefix)))
	}

	end := len(prefix)
	for end < len(input) && (input[end] == '.' || ('0' <= input[end] && input[end] <= '9')) {
		end++
	}

	literal := input[:end]
	for ver, text := range versionText {
		if text == literal {
			return input[end:], ver, nil
		}
	}

	return input, 0, NewParseError(InvalidVersion, literal)
}

// head returns at most n leading bytes of s, for error literals.
func head(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
