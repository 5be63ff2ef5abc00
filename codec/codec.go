// Package codec binds a serializer to a byte format: Decode unmarshals,
// validates and reconciles into a record; Encode represents and marshals it.
package codec

import (
	"context"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/gorecord"
	"github.com/reoring/gorecord/i18n"
	"github.com/reoring/gorecord/internal/wire"
)

// Codec converts between bytes of one format and records of type T.
type Codec[T any] struct {
	s      *gorecord.Serializer[T]
	name   string
	decode func([]byte) (any, error)
	encode func(any) ([]byte, error)
}

// JSON returns a Codec for JSON backed by goccy/go-json. Numbers are decoded
// as json.Number.
func JSON[T any](s *gorecord.Serializer[T]) *Codec[T] {
	return &Codec[T]{s: s, name: "json", decode: wire.DecodeJSON, encode: json.Marshal}
}

// YAML returns a Codec for YAML backed by gopkg.in/yaml.v3.
func YAML[T any](s *gorecord.Serializer[T]) *Codec[T] {
	return &Codec[T]{s: s, name: "yaml", decode: wire.DecodeYAML, encode: yaml.Marshal}
}

// Name returns the format name.
func (c *Codec[T]) Name() string { return c.name }

// Decode parses data and reconciles it into instance (a new record when nil).
// Malformed input and validation failures are both reported as
// *gorecord.ValidationError.
func (c *Codec[T]) Decode(ctx context.Context, data []byte, instance *T, opts ...gorecord.ValidateOpt) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := gorecord.LoggerFrom(ctx)
	v, err := c.decode(data)
	if err != nil {
		log.Debug("decode failed", "format", c.name, "serializer", c.s.Name(), "error", err)
		return nil, nonFieldError(i18n.T(gorecord.CodeParseError, nil) + " " + err.Error())
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nonFieldError(i18n.T(gorecord.CodeNotADict, map[string]string{"type": typeLabel(v)}))
	}
	out, err := c.s.Save(instance, m, opts...)
	if err != nil {
		log.Debug("record rejected", "format", c.name, "serializer", c.s.Name(), "error", err)
		return nil, err
	}
	return out, nil
}

// Encode represents instance and marshals it.
func (c *Codec[T]) Encode(ctx context.Context, instance *T) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := c.s.Represent(instance)
	if err != nil {
		return nil, err
	}
	return c.encode(m)
}

func nonFieldError(msg string) *gorecord.ValidationError {
	return &gorecord.ValidationError{Errors: gorecord.FieldErrors{gorecord.NonFieldErrorsKey: {msg}}}
}

func typeLabel(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case string:
		return "str"
	default:
		return "scalar"
	}
}
