package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidPort = errors.New("invalid port")
	ErrInvalidHost = errors.New("invalid host")
)

type URI struct {
	Scheme    string
	Authority *Authority
	Path      Path
	Query     Query
	Fragment  *string
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
func (u URI) IsRelativeRef() bool {
	return u.Scheme == ""
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.3
func (u URI) String() string {
	b := new(strings.Builder)
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}

	if u.Authority != nil {
		b.WriteString("//")
		b.WriteString(u.Authority.String())
	}

	path := u.Path.String()
	if u.Authority != nil && path != "" && path[0] != '/' {
		b.WriteByte('/')
	}
	b.WriteString(path)

	if u.Query.Len() > 0 {
		b.WriteByte('?')
		b.WriteString(u.Query.String())
	}

	if u.Fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.Fragment)
	}

	return b.String()
}

type Authority struct {
	Host     string
	User     *string
	Password *string

	// NOTE: Port can be digits of any length. But practically it is in range of 0 ~ 65535.
	// Reference: datatracker.ietf.org/doc/html/rfc3986#section-3.2.3
	Port *uint16
}

func (a Authority) String() string {
	b := new(strings.Builder)
	if a.User != nil {
		b.WriteString(*a.User)
		if a.Password != nil {
			b.WriteByte(':')
			b.WriteString(*a.Password)
		}
		b.WriteByte('@')
	}
	b.WriteString(a.HostPort())
	return b.String()
}

// HostPort returns host with its port, if any. It's the value of Host header.
func (a Authority) HostPort() string {
	if a.Port == nil {
		return a.Host
	}
	return a.Host + ":" + strconv.FormatUint(uint64(*a.Port), 10)
}

// DefaultPort returns well-known port of the scheme.
func DefaultPort(scheme string) (uint16, bool) {
	switch strings.ToLower(scheme) {
	case "http", "ws", "":
		return 80, true
	case "https", "wss":
		return 443, true
	}
	return 0, false
}

func Parse(rawURL string) (URI, error) {
	if containsCTL(rawURL) {
		return URI{}, errors.New("URI should not contain CTL bytes")
	}

	var uri URI

	scheme, rest, err := cutScheme(rawURL)
	if err != nil {
		return URI{}, errors.Wrap(err, "getting scheme")
	}
	// Scheme is recommended to be lowercase.
	uri.Scheme = strings.ToLower(scheme)

	if strings.HasPrefix(rest, "//") {
		authorityRaw := rest[2:]
		rest = ""
		if i := strings.IndexAny(authorityRaw, "/?#"); i >= 0 {
			authorityRaw, rest = authorityRaw[:i], authorityRaw[i:]
		}

		authority, err := ParseAuthority(authorityRaw)
		if err != nil {
			return URI{}, errors.Wrap(err, "parsing authority")
		}

		uri.Authority = &authority
	}

	rest, uri.Path = ParsePath(rest)

	if q, ok := strings.CutPrefix(rest, "?"); ok {
		rest, uri.Query = ParseQuery(q)
	}

	if frag, ok := strings.CutPrefix(rest, "#"); ok {
		uri.Fragment = &frag
	}

	return uri, nil
}

// cutScheme cuts scheme from rawURL. If scheme is not valid, it returns an error.
func cutScheme(rawURL string) (scheme, rest string, err error) {
	idx := strings.IndexByte(rawURL, ':')
	if idx < 0 || strings.ContainsAny(rawURL[:idx], "/?#") {
		// Colon belongs to path, query or fragment.
		return "", rawURL, nil
	}

	scheme, rest = rawURL[:idx], rawURL[idx+1:]
	if err := assertValidScheme(scheme); err != nil {
		return "", "", err
	}

	return scheme, rest, nil
}

// ParseAuthority parses "[user[:password]@]host[:port]".
func ParseAuthority(raw string) (authority Authority, err error) {
	host := raw
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		userInfo := raw[:i]
		host = raw[i+1:]

		if !isValidUserInfo(userInfo) {
			return Authority{}, errors.New("user information is not valid")
		}

		user, password, found := strings.Cut(userInfo, ":")
		authority.User = &user
		if found {
			authority.Password = &password
		}
	}

	host, portPart, err := getHostPort(host)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing host")
	}

	port, hasPort, err := parsePort(portPart)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing host")
	}

	if hasPort {
		authority.Port = &port
	}
	authority.Host = strings.ToLower(host)

	return authority, nil
}

func getHostPort(raw string) (host string, portPart string, err error) {
	if strings.HasPrefix(raw, "[") {
		// This is IP Literal.
		idx := strings.LastIndex(raw, "]")
		if idx < 0 {
			return "", "", errors.Wrap(ErrInvalidHost, "missing ']' in IP Literal")
		}

		host = raw[:idx+1]
		portPart = raw[idx+1:]
	} else {
		// ipv4 or reg-name.
		host = raw
		if idx := strings.LastIndex(raw, ":"); idx >= 0 {
			host = raw[:idx]
			portPart = raw[idx:]
		}
	}

	if err := assertValidHost(host); err != nil {
		return "", "", errors.Wrap(err, "host is not valid")
	}

	return host, portPart, nil
}

// This is not the same rule as RFC. See [Authority].
func parsePort(s string) (port uint16, hasPort bool, err error) {
	if s == "" {
		return 0, false, nil
	}

	if s[0] != ':' {
		return 0, false, errors.Wrap(ErrInvalidPort, "colon delimiter not found on port")
	}

	s = s[1:]

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false, errors.Wrapf(ErrInvalidPort, "%q", s)
	}

	if s[0] == '0' && !(n == 0 && len(s) == 1) {
		return 0, false, errors.Wrap(ErrInvalidPort, "port has leading zero")
	}

	return uint16(n), true, nil
}
