package status

import (
	"strconv"
	"strings"

	"httpkit/application/http"
	"httpkit/application/util/rule"
)

type Status struct {
	Code         uint
	ReasonPhrase string
}

func (s Status) String() string {
	return strconv.FormatUint(uint64(s.Code), 10) + " " + s.ReasonPhrase
}

// Informational 1XX
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.2
var (
	Continue           = add(Status{100, "Continue"})
	SwitchingProtocols = add(Status{101, "Switching Protocols"})
	Processing         = add(Status{102, "Processing"})
	EarlyHints         = add(Status{103, "Early Hints"})
)

// Successful 2XX
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.3
var (
	OK                   = add(Status{200, "OK"})
	Created              = add(Status{201, "Created"})
	Accepted             = add(Status{202, "Accepted"})
	NonAuthoritativeInfo = add(Status{203, "Non-Authoritative Information"})
	NoContent            = add(Status{204, "No Content"})
	ResetContent         = add(Status{205, "Reset Content"})
	PartialContent       = add(Status{206, "Partial Content"})
	MultiStatus          = add(Status{207, "Multi-Status"})
	AlreadyReported      = add(Status{208, "Already Reported"})
	IMUsed               = add(Status{226, "IM Used"})
)

// Redirection 3xx
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.4
var (
	MultipleChoices   = add(Status{300, "Multiple Choices"})
	MovedPermanently  = add(Status{301, "Moved Permanently"})
	Found             = add(Status{302, "Found"})
	SeeOther          = add(Status{303, "See Other"})
	NotModified       = add(Status{304, "Not Modified"})
	UseProxy          = add(Status{305, "Use Proxy"})
	TemporaryRedirect = add(Status{307, "Temporary Redirect"})
	PermanentRedirect = add(Status{308, "Permanent Redirect"})
)

// Client Error 4xx
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.5
var (
	BadRequest                  = add(Status{400, "Bad Request"})
	Unauthorized                = add(Status{401, "Unauthorized"})
	PaymentRequired             = add(Status{402, "Payment Required"})
	Forbidden                   = add(Status{403, "Forbidden"})
	NotFound                    = add(Status{404, "Not Found"})
	MethodNotAllowed            = add(Status{405, "Method Not Allowed"})
	NotAcceptable               = add(Status{406, "Not Acceptable"})
	ProxyAuthRequired           = add(Status{407, "Proxy Authentication Required"})
	RequestTimeout              = add(Status{408, "Request Timeout"})
	Conflict                    = add(Status{409, "Conflict"})
	Gone                        = add(Status{410, "Gone"})
	LengthRequired              = add(Status{411, "Length Required"})
	PreconditionFailed          = add(Status{412, "Precondition Failed"})
	ContentTooLarge             = add(Status{413, "Content Too Large"})
	URITooLong                  = add(Status{414, "URI Too Long"})
	UnsupportedMediaType        = add(Status{415, "Unsupported Media Type"})
	RangeNotSatisfiable         = add(Status{416, "Range Not Satisfiable"})
	ExpectationFailed           = add(Status{417, "Expectation Failed"})
	ImATeapot                   = add(Status{418, "I'm a teapot"}) // Unused. But I like the joke.
	MisdirectedRequest          = add(Status{421, "Misdirected Request"})
	UnprocessableContent        = add(Status{422, "Unprocessable Content"})
	Locked                      = add(Status{423, "Locked"})
	FailedDependency            = add(Status{424, "Failed Dependency"})
	TooEarly                    = add(Status{425, "Too Early"})
	UpgradeRequired             = add(Status{426, "Upgrade Required"})
	PreconditionRequired        = add(Status{428, "Precondition Required"})
	TooManyRequests             = add(Status{429, "Too Many Requests"})
	RequestHeaderFieldsTooLarge = add(Status{431, "Request Header Fields Too Large"})
	UnavailableForLegalReasons  = add(Status{451, "Unavailable For Legal Reasons"})
)

// Server Error 5xx
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.6
var (
	InternalServerError           = add(Status{500, "Internal Server Error"})
	NotImplemented                = add(Status{501, "Not Implemented"})
	BadGateway                    = add(Status{502, "Bad Gateway"})
	ServiceUnavailable            = add(Status{503, "Service Unavailable"})
	GatewayTimeout                = add(Status{504, "Gateway Timeout"})
	HTTPVersionNotSupported       = add(Status{505, "HTTP Version Not Supported"})
	VariantAlsoNegotiates         = add(Status{506, "Variant Also Negotiates"})
	InsufficientStorage           = add(Status{507, "Insufficient Storage"})
	LoopDetected                  = add(Status{508, "Loop Detected"})
	NotExtended                   = add(Status{510, "Not Extended"})
	NetworkAuthenticationRequired = add(Status{511, "Network Authentication Required"})
)

var (
	sm = make(map[uint]*Status)
	rm = make(map[string]*Status)
)

func add(status Status) Status {
	sm[status.Code] = &status
	rm[status.ReasonPhrase] = &status
	return status
}

// Registered returns every standard status.
func Registered() []Status {
	out := make([]Status, 0, len(sm))
	for _, s := range sm {
		out = append(out, *s)
	}
	return out
}

// FromCode looks up a standard status.
// Unknown codes get the default reason of their class.
func FromCode(code uint) (status Status, ok bool) {
	s, ok := sm[code]
	if !ok {
		return Status{Code: code, ReasonPhrase: defaultReason(code)}, false
	}

	return *s, true
}

func FromReason(reason string) (status Status, ok bool) {
	s, ok := rm[reason]
	if !ok {
		return Status{}, false
	}

	return *s, true
}

// Custom creates a status outside of the registry, or one with a non-standard reason.
// Empty reason falls back to the default reason of the class.
func Custom(code uint, reason string) Status {
	if reason == "" {
		reason = defaultReason(code)
	}
	return Status{Code: code, ReasonPhrase: reason}
}

// IsStandard reports whether s is exactly a registered status.
func (s Status) IsStandard() bool {
	std, ok := sm[s.Code]
	return ok && std.ReasonPhrase == s.ReasonPhrase
}

func defaultReason(code uint) string {
	switch code / 100 {
	case 1:
		return "Unknown Informational Status"
	case 2:
		return "Unknown Successful Status"
	case 3:
		return "Unknown Redirection Status"
	case 4:
		return "Unknown Client Error Status"
	case 5:
		return "Unknown Server Error Status"
	}
	return "Unknown Status"
}

func (s Status) IsInformational() bool { return s.Code/100 == 1 }
func (s Status) IsSuccessful() bool    { return s.Code/100 == 2 }
func (s Status) IsRedirection() bool   { return s.Code/100 == 3 }
func (s Status) IsClientError() bool   { return s.Code/100 == 4 }
func (s Status) IsServerError() bool   { return s.Code/100 == 5 }

// Parse reads "code [reason]" up to CRLF or end of input.
// A code outside of the registry, or a reason differing from the
// registered one, yields a custom status.
func Parse(input string) (rest string, s Status, err error) {
	end := 0
	for end < len(input) && '0' <= input[end] && input[end] <= '9' {
		end++
	}

	literal := input[:end]
	code, err := strconv.ParseUint(literal, 10, 16)
	if err != nil || len(literal) != 3 || code < 100 {
		return input, Status{}, http.NewParseError(http.InvalidStatusCode, literal)
	}

	rest = strings.TrimLeft(input[end:], " ")
	reason := rest
	if idx := strings.Index(rest, "\r\n"); idx >= 0 {
		reason, rest = rest[:idx], rest[idx:]
	} else {
		rest = ""
	}
	reason = strings.TrimRight(reason, " \t")

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-4-4
	if !rule.IsValidFieldValue(reason) {
		return input, Status{}, http.NewParseError(http.InvalidStatusCode, literal+" "+reason)
	}

	std, ok := FromCode(uint(code))
	if !ok || (reason != "" && reason != std.ReasonPhrase) {
		return rest, Custom(uint(code), reason), nil
	}

	return rest, std, nil
}
