package session

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Formatter encodes values kept in a session as text.
type Formatter interface {
	Format(v any) (string, error)
	Parse(text string, out any) error
}

type YAMLFormatter struct{}

var _ Formatter = YAMLFormatter{}

func (YAMLFormatter) Format(v any) (string, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "marshalling yaml")
	}
	return string(b), nil
}

func (YAMLFormatter) Parse(text string, out any) error {
	if err := yaml.Unmarshal([]byte(text), out); err != nil {
		return errors.Wrap(err, "unmarshalling yaml")
	}
	return nil
}
