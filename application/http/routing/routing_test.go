package routing

import (
	"strings"
	"testing"

	"httpkit/application/http"
	"httpkit/application/http/semantic"
	"httpkit/application/http/semantic/status"
	"httpkit/application/util/uri"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trace records the order in which pipeline pieces ran.
type trace struct{ calls []string }

func (t *trace) record(name string) { t.calls = append(t.calls, name) }

func newRequest(t *testing.T, method http.Method, target string) *semantic.Request {
	t.Helper()
	u, err := uri.Parse(target)
	require.NoError(t, err)
	return &semantic.Request{Method: method, Target: u}
}

func named(name string) Controller[*trace] {
	return ControllerFunc[*trace](func(tr *trace, _ *semantic.Request) semantic.Response {
		tr.record(name)
		return semantic.Response{Status: status.OK}.WithBody([]byte(name))
	})
}

func beforeMW(name string) Middleware[*trace] {
	return MiddlewareFunc[*trace](func(tr *trace, req *semantic.Request, next Controller[*trace]) semantic.Response {
		tr.record(name)
		return next.Handle(tr, req)
	})
}

func afterMW(name string) Middleware[*trace] {
	return MiddlewareFunc[*trace](func(tr *trace, req *semantic.Request, next Controller[*trace]) semantic.Response {
		res := next.Handle(tr, req)
		tr.record(name)
		return res.WithAddedHeader("X-After", name)
	})
}

func TestMatchPath(t *testing.T) {
	testcases := []struct {
		desc    string
		pattern string
		path    string
		params  map[string]string
		ok      bool
	}{
		{desc: "root", pattern: "/", path: "/", params: map[string]string{}, ok: true},
		{desc: "literal", pattern: "/users", path: "/users/", params: map[string]string{}, ok: true},
		{desc: "capture", pattern: "/users/{id}", path: "/users/42", params: map[string]string{"id": "42"}, ok: true},
		{desc: "two captures", pattern: "/{a}/x/{b}", path: "/1/x/2", params: map[string]string{"a": "1", "b": "2"}, ok: true},
		{desc: "segment count mismatch", pattern: "/users/{id}", path: "/users/42/posts", ok: false},
		{desc: "literal mismatch after capture", pattern: "/{a}/x", path: "/1/y", ok: false},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			params, ok := matchPath(tc.pattern, tc.path)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.params, params)
			} else {
				assert.Nil(t, params)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/", joinPath("", ""))
	assert.Equal(t, "/api", joinPath("/api/", "/"))
	assert.Equal(t, "/api/users", joinPath("/api/", "/users"))
	assert.Equal(t, "/users", joinPath("", "users"))
}

func TestRouterMethodAndHeaderGating(t *testing.T) {
	router := NewRouter(
		Route[*trace]{
			Pattern:    "/items",
			Methods:    []http.Method{http.MethodPost},
			Controller: named("post"),
		},
		Route[*trace]{
			Pattern:    "/items",
			Headers:    http.NewHeaders(map[string][]string{"Accept": {"application/json"}}),
			Controller: named("json"),
		},
		Route[*trace]{
			Pattern:    "/items",
			Controller: named("fallback"),
		},
	)

	testcases := []struct {
		desc    string
		req     *semantic.Request
		handled string
	}{
		{
			desc:    "method matches first route",
			req:     newRequest(t, http.MethodPost, "/items"),
			handled: "post",
		},
		{
			desc: "header matches exactly",
			req: func() *semantic.Request {
				req := newRequest(t, http.MethodGet, "/items")
				req.Headers.Add("accept", "application/json")
				return req
			}(),
			handled: "json",
		},
		{
			desc: "header with extra values does not match",
			req: func() *semantic.Request {
				req := newRequest(t, http.MethodGet, "/items")
				req.Headers.Insert("Accept", "application/json", "text/html")
				return req
			}(),
			handled: "fallback",
		},
		{
			desc:    "no constraints",
			req:     newRequest(t, http.MethodGet, "/items"),
			handled: "fallback",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			tr := &trace{}
			res, ok := router.Handle(tr, tc.req)
			require.True(t, ok)
			assert.Equal(t, []byte(tc.handled), res.Body)
			assert.Equal(t, []string{tc.handled}, tr.calls)
		})
	}
}

func TestRouterNoMatch(t *testing.T) {
	router := NewRouter(Route[*trace]{Pattern: "/a", Controller: named("a")})

	tr := &trace{}
	_, ok := router.Handle(tr, newRequest(t, http.MethodGet, "/b"))
	assert.False(t, ok)
	assert.Empty(t, tr.calls)
}

func TestRouterStoresParams(t *testing.T) {
	var seen map[string]string
	router := NewRouter(Route[*trace]{
		Pattern: "/users/{id}/posts/{post}",
		Controller: ControllerFunc[*trace](func(_ *trace, req *semantic.Request) semantic.Response {
			seen = req.Params
			return semantic.Response{Status: status.OK}
		}),
	})

	req := newRequest(t, http.MethodGet, "/users/7/posts/9")
	_, ok := router.Handle(&trace{}, req)
	require.True(t, ok)

	assert.Equal(t, map[string]string{"id": "7", "post": "9"}, seen)
	assert.Equal(t, seen, req.Params)
}

func TestGroupOrdering(t *testing.T) {
	testcases := []struct {
		desc   string
		group  *RouteGroup[*trace]
		target string
		calls  []string
	}{
		{
			desc: "depth 1",
			group: NewGroup[*trace]("/a").
				Before(beforeMW("a.before1"), beforeMW("a.before2")).
				After(afterMW("a.after1"), afterMW("a.after2")).
				Add(Route[*trace]{Pattern: "/x", Controller: named("ctrl")}),
			target: "/a/x",
			calls:  []string{"a.before1", "a.before2", "ctrl", "a.after1", "a.after2"},
		},
		{
			desc: "depth 2",
			group: NewGroup[*trace]("/a").
				Before(beforeMW("a.before")).
				After(afterMW("a.after")).
				Group(NewGroup[*trace]("/b").
					Before(beforeMW("b.before")).
					After(afterMW("b.after")).
					Add(Route[*trace]{Pattern: "/x", Controller: named("ctrl")})),
			target: "/a/b/x",
			calls:  []string{"a.before", "b.before", "ctrl", "b.after", "a.after"},
		},
		{
			desc: "depth 3",
			group: NewGroup[*trace]("/a").
				Before(beforeMW("a.before")).
				After(afterMW("a.after")).
				Group(NewGroup[*trace]("b").
					Before(beforeMW("b.before")).
					After(afterMW("b.after")).
					Group(NewGroup[*trace]("/c/").
						Before(beforeMW("c.before")).
						After(afterMW("c.after")).
						Add(Route[*trace]{Pattern: "{id}", Controller: named("ctrl")}))),
			target: "/a/b/c/1",
			calls: []string{
				"a.before", "b.before", "c.before",
				"ctrl",
				"c.after", "b.after", "a.after",
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			router := NewRouter[*trace]().Mount(tc.group)

			tr := &trace{}
			res, ok := router.Handle(tr, newRequest(t, http.MethodGet, tc.target))
			require.True(t, ok)
			assert.Equal(t, tc.calls, tr.calls)

			// after middlewares see the response produced so far.
			var afters []string
			for _, call := range tc.calls {
				if strings.Contains(call, ".after") {
					afters = append(afters, call)
				}
			}
			got, _ := res.Headers.Get("X-After")
			assert.Equal(t, afters, got)
		})
	}
}

func TestGroupFlattenPatterns(t *testing.T) {
	ctrl := named("ctrl")
	group := NewGroup[*trace]("/api").
		Add(Route[*trace]{Pattern: "/", Controller: ctrl}).
		Group(NewGroup[*trace]("/v1").Add(Route[*trace]{Pattern: "/users/{id}", Controller: ctrl})).
		Add(Route[*trace]{Pattern: "/health", Controller: ctrl})

	var patterns []string
	for _, r := range group.Routes() {
		patterns = append(patterns, r.Pattern)
		// No middleware, so the controller is kept as is.
		assert.NotNil(t, r.Controller)
	}
	assert.Equal(t, []string{"/api", "/api/v1/users/{id}", "/api/health"}, patterns)
}

func TestShortCircuit(t *testing.T) {
	deny := MiddlewareFunc[*trace](func(tr *trace, _ *semantic.Request, _ Controller[*trace]) semantic.Response {
		tr.record("deny")
		return semantic.Response{Status: status.Forbidden}
	})

	group := NewGroup[*trace]("/").
		Before(beforeMW("first"), deny, beforeMW("never")).
		After(afterMW("after")).
		Add(Route[*trace]{Pattern: "/secret", Controller: named("ctrl")})

	tr := &trace{}
	res, ok := NewRouter[*trace]().Mount(group).Handle(tr, newRequest(t, http.MethodGet, "/secret"))
	require.True(t, ok)

	assert.Equal(t, status.Forbidden, res.Status)
	assert.Equal(t, []string{"first", "deny"}, tr.calls)
	assert.False(t, res.HasHeader("X-After"))
}

func TestAfterCanReplaceResponse(t *testing.T) {
	replace := MiddlewareFunc[*trace](func(tr *trace, req *semantic.Request, next Controller[*trace]) semantic.Response {
		res := next.Handle(tr, req)
		if res.Status == status.OK {
			return res.WithStatus(status.Accepted)
		}
		return res
	})

	m := NewMediator(named("ctrl"), nil, []Middleware[*trace]{replace})
	res := m.Handle(&trace{}, newRequest(t, http.MethodGet, "/"))
	assert.Equal(t, status.Accepted, res.Status)
	assert.Equal(t, []byte("ctrl"), res.Body)
}
