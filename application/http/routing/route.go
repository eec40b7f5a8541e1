package routing

import (
	"slices"
	"strings"

	"httpkit/application/http"
	"httpkit/application/http/semantic"
)

// Route matches a path pattern such as "/users/{id}".
// Empty Methods allows any method. Every field in Headers must be present
// on the request with exactly the same values.
type Route[C any] struct {
	Pattern    string
	Methods    []http.Method
	Headers    http.Headers
	Controller Controller[C]
}

// Match returns the captured parameters. Captures are discarded on failure.
func (r Route[C]) Match(req *semantic.Request) (map[string]string, bool) {
	if len(r.Methods) > 0 && !slices.Contains(r.Methods, req.Method) {
		return nil, false
	}

	if !req.Headers.Contains(r.Headers) {
		return nil, false
	}

	return matchPath(r.Pattern, req.Target.Path.Full())
}

func matchPath(pattern, path string) (map[string]string, bool) {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, p := range patternParts {
		if len(p) >= 2 && p[0] == '{' && p[len(p)-1] == '}' {
			params[p[1:len(p)-1]] = pathParts[i]
			continue
		}
		if p != pathParts[i] {
			return nil, false
		}
	}

	return params, true
}

// joinPath joins a group prefix and a pattern with a single '/'.
func joinPath(prefix, pattern string) string {
	prefix = strings.TrimRight(prefix, "/")
	pattern = strings.TrimLeft(pattern, "/")
	if pattern == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + "/" + pattern
}
