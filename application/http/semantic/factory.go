package semantic

import (
	"slices"

	"httpkit/application/http"
	"httpkit/application/http/semantic/status"
	"httpkit/application/util/uri"
)

// RequestFactory builds requests with a fixed version and default headers.
// Call-site headers are appended after the defaults.
type RequestFactory struct {
	Version        http.Version
	DefaultHeaders http.Headers
}

func NewRequestFactory(version http.Version, defaults http.Headers) RequestFactory {
	return RequestFactory{Version: version, DefaultHeaders: defaults.Clone()}
}

func (f RequestFactory) Build(method http.Method, target uri.URI, headers http.Headers, body []byte) Request {
	return Request{
		Method: method,
		Target: target,
		Message: Message{
			Version: f.Version,
			Headers: f.DefaultHeaders.Merge(headers),
			Body:    slices.Clone(body),
		},
	}
}

func (f RequestFactory) Get(target uri.URI, headers http.Headers) Request {
	return f.Build(http.MethodGet, target, headers, nil)
}

func (f RequestFactory) Post(target uri.URI, headers http.Headers, body []byte) Request {
	return f.Build(http.MethodPost, target, headers, body)
}

// ResponseFactory builds responses with a fixed version and default headers.
// Call-site headers are appended after the defaults.
type ResponseFactory struct {
	Version        http.Version
	DefaultHeaders http.Headers
}

func NewResponseFactory(version http.Version, defaults http.Headers) ResponseFactory {
	return ResponseFactory{Version: version, DefaultHeaders: defaults.Clone()}
}

func (f ResponseFactory) WithStatus(s status.Status, headers http.Headers) Response {
	return Response{
		Status: s,
		Message: Message{
			Version: f.Version,
			Headers: f.DefaultHeaders.Merge(headers),
		},
	}
}

func (f ResponseFactory) OK(headers http.Headers, body []byte) Response {
	return f.WithStatus(status.OK, headers).WithBody(body)
}

func (f ResponseFactory) NoContent(headers http.Headers) Response {
	return f.WithStatus(status.NoContent, headers)
}

func (f ResponseFactory) NotFound(headers http.Headers) Response {
	return f.WithStatus(status.NotFound, headers)
}

// Error answers err with its status, or 500 when it has none.
func (f ResponseFactory) Error(err error) Response {
	se := status.ErrorFrom(err, status.InternalServerError)
	return f.WithStatus(se.Status, http.Headers{})
}

func (f ResponseFactory) Redirect(r Redirection) Response {
	s, headers := r.Pair()
	return f.WithStatus(s, headers)
}

func (f ResponseFactory) MultipleChoices(alternates []uri.URI, preferred *uri.URI) Response {
	return f.Redirect(MultipleChoices(alternates, preferred))
}

func (f ResponseFactory) MovedPermanently(target uri.URI) Response {
	return f.Redirect(MovedPermanently(target))
}

func (f ResponseFactory) Found(target uri.URI) Response {
	return f.Redirect(Found(target))
}

func (f ResponseFactory) SeeOther(target uri.URI) Response {
	return f.Redirect(SeeOther(target))
}

func (f ResponseFactory) NotModified(target uri.URI, headers http.Headers) Response {
	return f.Redirect(NotModified(target, headers))
}

func (f ResponseFactory) TemporaryRedirect(target uri.URI) Response {
	return f.Redirect(TemporaryRedirect(target))
}

func (f ResponseFactory) PermanentRedirect(target uri.URI) Response {
	return f.Redirect(PermanentRedirect(target))
}

func (f ResponseFactory) Unauthorized(challenge WWWAuthenticate, headers http.Headers) Response {
	headers = headers.Clone()
	headers.Add("WWW-Authenticate", challenge.String())
	return f.WithStatus(status.Unauthorized, headers)
}

func (f ResponseFactory) Forbidden(headers http.Headers) Response {
	return f.WithStatus(status.Forbidden, headers)
}

func (f ResponseFactory) NotImplemented(message string) Response {
	return f.WithStatus(status.NotImplemented, http.Headers{}).WithBody([]byte(message))
}
