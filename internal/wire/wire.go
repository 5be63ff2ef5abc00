// Package wire decodes JSON and YAML documents into the generic value tree
// (map[string]any, []any, primitives) that serializers consume.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes a single JSON document. Numbers are kept as json.Number
// so integers survive without float rounding.
func DecodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON document")
	}
	return v, nil
}

// DecodeYAML decodes the first YAML document and normalizes nested mappings
// to map[string]any.
func DecodeYAML(b []byte) (any, error) {
	var v any
	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return Normalize(v)
}

// Normalize converts YAML-decoded values (which may contain map[any]any) into
// JSON-like values recursively. Non-string keys are an error.
func Normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			n, err := Normalize(vv)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", k)
			}
			n, err := Normalize(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			n, err := Normalize(t[i])
			if err != nil {
				return nil, err
			}
			arr[i] = n
		}
		return arr, nil
	default:
		return v, nil
	}
}
