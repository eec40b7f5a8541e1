package semantic

import (
	"slices"

	"httpkit/application/http"
	"httpkit/application/http/semantic/status"
	"httpkit/application/util/uri"
	sliceutil "httpkit/lib/slice"
)

type redirectKind uint8

const (
	redirectMultipleChoices redirectKind = iota + 1
	redirectMovedPermanently
	redirectFound
	redirectSeeOther
	redirectNotModified
	redirectTemporary
	redirectPermanent
)

var redirectStatus = map[redirectKind]status.Status{
	redirectMultipleChoices:  status.MultipleChoices,
	redirectMovedPermanently: status.MovedPermanently,
	redirectFound:            status.Found,
	redirectSeeOther:         status.SeeOther,
	redirectNotModified:      status.NotModified,
	redirectTemporary:        status.TemporaryRedirect,
	redirectPermanent:        status.PermanentRedirect,
}

// Redirection is one of the 3xx answers. Build it with the functions below.
type Redirection struct {
	kind       redirectKind
	location   *uri.URI
	alternates []uri.URI
	extra      http.Headers
}

// MultipleChoices lists alternates. Location is preferred, or the first
// alternate when there is no preference.
func MultipleChoices(alternates []uri.URI, preferred *uri.URI) Redirection {
	alternates = slices.Clone(alternates)
	r := Redirection{kind: redirectMultipleChoices, alternates: alternates, location: preferred}
	if r.location == nil && len(alternates) > 0 {
		r.location = &alternates[0]
	}
	return r
}

func MovedPermanently(target uri.URI) Redirection {
	return Redirection{kind: redirectMovedPermanently, location: &target}
}

func Found(target uri.URI) Redirection {
	return Redirection{kind: redirectFound, location: &target}
}

func SeeOther(target uri.URI) Redirection {
	return Redirection{kind: redirectSeeOther, location: &target}
}

// NotModified carries extra headers such as ETag or Cache-Control.
func NotModified(target uri.URI, extra http.Headers) Redirection {
	return Redirection{kind: redirectNotModified, location: &target, extra: extra.Clone()}
}

func TemporaryRedirect(target uri.URI) Redirection {
	return Redirection{kind: redirectTemporary, location: &target}
}

func PermanentRedirect(target uri.URI) Redirection {
	return Redirection{kind: redirectPermanent, location: &target}
}

func (r Redirection) Status() status.Status { return redirectStatus[r.kind] }

// Location returns the redirect target, if there is one.
func (r Redirection) Location() (uri.URI, bool) {
	if r.location == nil {
		return uri.URI{}, false
	}
	return *r.location, true
}

func (r Redirection) Headers() http.Headers {
	headers := r.extra.Clone()
	if r.location != nil {
		headers.Set("Location", r.location.String())
	}
	if len(r.alternates) > 0 {
		headers.Insert("Link", sliceutil.Map(r.alternates, func(alt uri.URI) string {
			return "<" + alt.String() + `>; rel="alternate"`
		})...)
	}
	return headers
}

// Pair returns the status and headers of the answer.
func (r Redirection) Pair() (status.Status, http.Headers) {
	return r.Status(), r.Headers()
}
