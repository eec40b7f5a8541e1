package rule

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if IsAlpha(c) || IsDigit(c) {
			continue
		}

		switch c {
		case '!', '#', '$', '%', '&', '\'', '*', '+',
			'-', '.', '^', '_', '`', '|', '~':
			continue
		}

		return false
	}

	return true
}

// IsValidMethodName reports whether s only has ASCII alphanumerics and '-'.
func IsValidMethodName(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !IsAlpha(c) && !IsDigit(c) && c != '-' {
			return false
		}
	}
	return true
}

// CanonicalFieldName upper-cases the first letter of every '-' separated word
// and lower-cases the rest. Names that are not tokens are returned as is.
func CanonicalFieldName(s string) string {
	if !IsValidToken(s) {
		return s
	}

	const capitalDiff = 'a' - 'A'
	b := []byte(s)
	upper := true
	for i, c := range b {
		if upper && 'a' <= c && c <= 'z' {
			c -= capitalDiff
		} else if !upper && 'A' <= c && c <= 'Z' {
			c += capitalDiff
		}
		b[i] = c
		upper = c == '-'
	}
	return string(b)
}
