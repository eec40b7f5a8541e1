// Package http implements the textual grammar of Hypertext Transfer Protocol
// messages: protocol version, method, header fields and message framing.
//
// Parsers take the remaining input and return what is left after the parsed
// element, so they can be chained to read a whole message.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
