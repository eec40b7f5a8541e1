// Package uri implements the URI grammar used for request targets and
// redirection locations.
//
// Paths are split into a resource and an optional path info at the first
// segment carrying a dot, e.g. "/docs/index.php/a/b" has resource
// "/docs/index.php" and path info "/a/b".
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
package uri
