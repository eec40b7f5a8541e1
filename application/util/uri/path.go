package uri

import "strings"

// Path is a request path split into a resource and an optional path info.
// Resource segments have "%20" and "+" decoded to spaces; nothing else is decoded.
type Path struct {
	Resource string
	Info     *string
}

// ParsePath reads a path up to '?' or '#'.
func ParsePath(input string) (rest string, p Path) {
	raw := input
	if idx := strings.IndexAny(input, "?#"); idx >= 0 {
		raw, rest = input[:idx], input[idx:]
	}

	if !strings.Contains(raw, "/") {
		return rest, Path{Resource: decodeSegment(raw)}
	}

	trimmed := strings.TrimLeft(raw, "/")
	leading := raw[:len(raw)-len(trimmed)]

	segments := strings.Split(trimmed, "/")
	resource := make([]string, 0, len(segments))
	for idx, segment := range segments {
		resource = append(resource, decodeSegment(segment))
		if strings.Contains(segment, ".") {
			if remaining := segments[idx+1:]; len(remaining) > 0 {
				info := "/" + strings.Join(remaining, "/")
				p.Info = &info
			}
			break
		}
	}

	p.Resource = leading + strings.Join(resource, "/")
	return rest, p
}

func decodeSegment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "%20", " "), "+", " ")
}

// Full returns resource followed by path info.
func (p Path) Full() string {
	if p.Info == nil {
		return p.Resource
	}
	return p.Resource + *p.Info
}

func (p Path) String() string {
	return strings.ReplaceAll(p.Full(), " ", "%20")
}
