package semantic

import (
	"slices"
	"strings"
)

type Cookie struct {
	Name  string
	Value string
}

func (c Cookie) String() string { return c.Name + "=" + c.Value }

// ParseSetCookie takes the leading "name=value" of a Set-Cookie value.
// Reference: https://datatracker.ietf.org/doc/html/rfc6265#section-5.2
func ParseSetCookie(v string) (Cookie, bool) {
	pair, _, _ := strings.Cut(v, ";")
	name, value, found := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Cookie{}, false
	}
	return Cookie{Name: name, Value: strings.TrimSpace(value)}, true
}

// CookieJar maps cookie names to values. The zero value is ready to use.
type CookieJar struct{ cookies map[string]string }

// ParseCookieJar parses a Cookie header value, "a=1; b=2".
// Pairs without '=' are skipped.
func ParseCookieJar(header string) CookieJar {
	var jar CookieJar
	for _, pair := range strings.Split(header, ";") {
		name, value, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			continue
		}
		jar.Set(Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return jar
}

func (j *CookieJar) Set(c Cookie) {
	if j.cookies == nil {
		j.cookies = make(map[string]string)
	}
	j.cookies[c.Name] = c.Value
}

func (j CookieJar) Get(name string) (string, bool) {
	v, ok := j.cookies[name]
	return v, ok
}

func (j *CookieJar) Remove(name string) {
	delete(j.cookies, name)
}

func (j CookieJar) Len() int { return len(j.cookies) }

// Cookies returns cookies sorted by name.
func (j CookieJar) Cookies() []Cookie {
	names := make([]string, 0, len(j.cookies))
	for name := range j.cookies {
		names = append(names, name)
	}
	slices.Sort(names)

	cookies := make([]Cookie, 0, len(names))
	for _, name := range names {
		cookies = append(cookies, Cookie{Name: name, Value: j.cookies[name]})
	}
	return cookies
}

// Header renders the jar as a Cookie header value.
func (j CookieJar) Header() string {
	pairs := make([]string, 0, len(j.cookies))
	for _, c := range j.Cookies() {
		pairs = append(pairs, c.String())
	}
	return strings.Join(pairs, "; ")
}
