package semantic

import (
	"strconv"
	"strings"
)

type AuthenticationScheme string

// Reference: https://www.iana.org/assignments/http-authschemes/http-authschemes.xhtml
const (
	AuthBasic        AuthenticationScheme = "Basic"
	AuthBearer       AuthenticationScheme = "Bearer"
	AuthConcealed    AuthenticationScheme = "Concealed"
	AuthDigest       AuthenticationScheme = "Digest"
	AuthDPoP         AuthenticationScheme = "DPoP"
	AuthGNAP         AuthenticationScheme = "GNAP"
	AuthHOBA         AuthenticationScheme = "HOBA"
	AuthMutual       AuthenticationScheme = "Mutual"
	AuthNegotiate    AuthenticationScheme = "Negotiate"
	AuthOAuth        AuthenticationScheme = "OAuth"
	AuthPrivateToken AuthenticationScheme = "PrivateToken"
	AuthSCRAMSHA1    AuthenticationScheme = "SCRAM-SHA-1"
	AuthSCRAMSHA256  AuthenticationScheme = "SCRAM-SHA-256"
	AuthVAPID        AuthenticationScheme = "vapid"
)

// WWWAuthenticate is a challenge sent with 401.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-11.6.1
type WWWAuthenticate struct {
	Scheme  AuthenticationScheme
	Realm   *string
	Charset *string
}

func (w WWWAuthenticate) String() string {
	params := make([]string, 0, 2)
	if w.Realm != nil {
		params = append(params, "realm="+strconv.Quote(*w.Realm))
	}
	if w.Charset != nil {
		params = append(params, "charset="+strconv.Quote(*w.Charset))
	}

	if len(params) == 0 {
		return string(w.Scheme)
	}
	return string(w.Scheme) + " " + strings.Join(params, ", ")
}
