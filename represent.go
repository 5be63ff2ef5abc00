package gorecord

import (
	"fmt"
	"maps"
	"reflect"
)

// represent extracts the readable fields of inst (a record pointer) keyed by
// field name.
func (s *recordSchema) represent(inst reflect.Value) (map[string]any, error) {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if f.writeOnly {
			continue
		}
		if f.star() {
			child, err := f.record.represent(inst)
			if err != nil {
				return nil, err
			}
			maps.Copy(out, child)
			continue
		}
		v, err := f.representValue(s.attr(inst, f))
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", s.name, f.name, err)
		}
		out[f.name] = v
	}
	return out, nil
}

func (f *field) representValue(rv reflect.Value) (any, error) {
	switch f.kind {
	case KindScalar, KindEnum:
		if rv.Kind() == reflect.Pointer && rv.Type() != f.scalar.typ {
			if rv.IsNil() {
				return nil, nil
			}
			rv = rv.Elem()
		}
		return f.scalar.encode(rv), nil
	case KindNested:
		p := childRef(rv)
		if !p.IsValid() {
			return nil, nil
		}
		return f.record.represent(p)
	case KindList:
		if rv.IsNil() {
			return nil, nil
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := f.elem.representValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case KindMap:
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := f.elem.representValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = v
		}
		return out, nil
	}
	return flatEncode(rv)
}
