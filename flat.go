package gorecord

import (
	"bytes"
	"reflect"

	json "github.com/goccy/go-json"
)

// Records and containers past the depth budget are converted wholesale through
// a JSON round trip instead of field by field. Keys follow encoding/json rules.

func flatDecode(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	if rv := reflect.ValueOf(v); rv.Type().AssignableTo(t) {
		return rv, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return reflect.Value{}, assignmentError(v, err)
	}
	p := reflect.New(t)
	if err := json.Unmarshal(b, p.Interface()); err != nil {
		return reflect.Value{}, assignmentError(v, err)
	}
	return p.Elem(), nil
}

func flatEncode(rv reflect.Value) (any, error) {
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
		return nil, nil
	}
	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
