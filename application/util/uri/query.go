package uri

import (
	"slices"
	"strings"
)

// Query is a flat name to value mapping. Later pairs override earlier ones.
type Query struct{ params map[string]string }

// ParseQuery reads "k=v&k2=v2" up to '#'. A pair without '=' has an empty value.
func ParseQuery(input string) (rest string, q Query) {
	raw := input
	if idx := strings.IndexByte(input, '#'); idx >= 0 {
		raw, rest = input[:idx], input[idx:]
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		q.Add(key, value)
	}

	return rest, q
}

func (q Query) Get(key string) (string, bool) {
	v, ok := q.params[key]
	return v, ok
}

func (q Query) Has(key string) bool {
	_, ok := q.params[key]
	return ok
}

// Add appends a pair. Since a key holds one value, an earlier one is overridden.
func (q *Query) Add(key, value string) {
	if q.params == nil {
		q.params = make(map[string]string)
	}
	q.params[key] = value
}

// Set replaces the value of key.
func (q *Query) Set(key, value string) {
	q.Remove(key)
	q.Add(key, value)
}

func (q *Query) Remove(key string) {
	delete(q.params, key)
}

func (q Query) Len() int { return len(q.params) }

// Keys returns sorted keys.
func (q Query) Keys() []string {
	keys := make([]string, 0, len(q.params))
	for k := range q.params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (q Query) String() string {
	pairs := make([]string, 0, len(q.params))
	for _, k := range q.Keys() {
		if v := q.params[k]; v != "" {
			pairs = append(pairs, k+"="+v)
		} else {
			pairs = append(pairs, k)
		}
	}
	return strings.Join(pairs, "&")
}
