package http

import (
	"bufio"
	"io"

	"httpkit/application/util/rule"

	"github.com/pkg/errors"
)

var ErrInvalidLine = errors.New("line contains CR, LF or NUL")

// Encoder writes a message: start line, header lines, an empty line and the body.
type Encoder struct {
	bw *bufio.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{bw: bufio.NewWriter(w)}
}

func (e *Encoder) writeLine(line string) error {
	if _, err := e.bw.WriteString(line); err != nil {
		return errors.Wrap(err, "writing line")
	}
	if _, err := e.bw.Write(rule.CRLF); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}
	return nil
}

// Encode writes nothing when the start line or a header line would break
// the line structure of the message.
func (e *Encoder) Encode(startLine string, headers Headers, body []byte) error {
	lines := append([]string{startLine}, headers.Lines()...)
	for _, line := range lines {
		if !rule.IsValidFieldValue(line) {
			return errors.Wrapf(ErrInvalidLine, "%q", line)
		}
	}

	for _, line := range lines {
		if err := e.writeLine(line); err != nil {
			return errors.Wrap(err, "writing field")
		}
	}

	// Write a empty line as all the headers are written.
	if err := e.writeLine(""); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}

	if _, err := e.bw.Write(body); err != nil {
		return errors.Wrap(err, "writing body")
	}

	if err := e.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing message")
	}

	return nil
}
