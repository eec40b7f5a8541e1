package rule

const (
	CR   byte = '\r'
	LF   byte = '\n'
	SP   byte = ' '
	HTAB byte = '\t'
	NUL  byte = 0x00
)

var (
	OWS  = []byte{SP, HTAB}
	CRLF = []byte{CR, LF}

	// EndOfHead separates the message head from its body.
	EndOfHead = []byte{CR, LF, CR, LF}
)

// IsValidFieldValue reports whether s can be carried on a single field line.
// CR, LF and NUL are never allowed, whether bare or paired.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.5-5
func IsValidFieldValue(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case CR, LF, NUL:
			return false
		}
	}
	return true
}

func IsOWS(r rune) bool { return r == rune(SP) || r == rune(HTAB) }

func IsAlpha(r rune) bool { return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') }
func IsDigit(r rune) bool { return '0' <= r && r <= '9' }
func IsHex(r rune) bool {
	return IsDigit(r) || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// TrimOWS removes optional whitespace on both ends.
func TrimOWS(s string) string {
	start, end := 0, len(s)
	for start < end && IsOWS(rune(s[start])) {
		start++
	}
	for end > start && IsOWS(rune(s[end-1])) {
		end--
	}
	return s[start:end]
}
