package gorecord

import (
	"errors"
	"fmt"
	"reflect"
)

// coerce converts a validated (or raw wire) value into a value of type t.
// Failures are reported as *FieldAssignmentError.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}
	if c, ok := lookupScalar(t); ok {
		if out, ok := c.decode(v); ok {
			return out, nil
		}
		return reflect.Value{}, assignmentError(v, nil)
	}
	switch t.Kind() {
	case reflect.Pointer:
		inner, err := coerce(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	case reflect.Slice:
		if rv.Kind() != reflect.Slice {
			break
		}
		out := reflect.MakeSlice(t, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := coerce(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, e)
		}
		return out, nil
	case reflect.Map:
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || t.Key().Kind() != reflect.String {
			break
		}
		out := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			e, err := coerce(iter.Value().Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key().Convert(t.Key()), e)
		}
		return out, nil
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			break
		}
		out := reflect.New(t).Elem()
		for _, a := range recordAttributes(t) {
			raw, ok := m[a.key]
			if !ok {
				continue
			}
			e, err := coerce(raw, a.typ)
			if err != nil {
				return reflect.Value{}, err
			}
			out.FieldByIndex(a.index).Set(e)
		}
		return out, nil
	}
	return reflect.Value{}, assignmentError(v, fmt.Errorf("expected %s", t))
}

func assignmentError(v any, cause error) *FieldAssignmentError {
	return &FieldAssignmentError{Type: reflect.TypeOf(v).String(), Cause: cause}
}

// withField names the field of an assignment failure.
func withField(err error, name string) error {
	var ae *FieldAssignmentError
	if errors.As(err, &ae) && ae.Field == "" {
		ae.Field = name
	}
	return err
}
