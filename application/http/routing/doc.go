// Package routing dispatches requests to controllers by path pattern,
// method and required headers, with before/after middleware chains
// attached through nested route groups.
package routing
