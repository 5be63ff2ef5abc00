package gorecord

import (
	"fmt"
	"maps"
	"slices"
)

// toInternal validates raw wire data for every writable field of s. Input is
// keyed by field name and the output by source. Failures land in errs.
func (s *recordSchema) toInternal(data map[string]any, opt ValidateOpt, errs FieldErrors) map[string]any {
	out := make(map[string]any, len(s.writable))
	for _, f := range s.writable {
		if f.star() {
			maps.Copy(out, f.record.toInternal(data, opt, errs))
			continue
		}
		raw, ok := data[f.name]
		if !ok {
			if f.required && !opt.Partial {
				errs.Add(f.name, newFieldError(f.name, CodeRequired, nil).Messages...)
			}
			continue
		}
		v, err := f.internalValue(raw, opt, errs)
		if err != nil {
			errs.Add(f.name, err.Messages...)
			continue
		}
		out[f.source] = v
	}
	return out
}

// internalValue converts one raw value for f. Nested records report their own
// field failures into errs; the returned error belongs to f itself.
func (f *field) internalValue(raw any, opt ValidateOpt, errs FieldErrors) (any, *FieldError) {
	if raw == nil {
		if !f.allowNull {
			return nil, newFieldError(f.name, CodeNull, nil)
		}
		return nil, nil
	}
	switch f.kind {
	case KindScalar, KindEnum:
		rv, ok := f.scalar.decode(raw)
		if !ok {
			return nil, newFieldError(f.name, CodeInvalid, map[string]string{"type": f.scalar.label})
		}
		v := rv.Interface()
		if f.choices != nil && !slices.Contains(f.choices, v) {
			return nil, newFieldError(f.name, CodeInvalidChoice, map[string]string{"input": fmt.Sprint(raw)})
		}
		return v, nil
	case KindNested:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, newFieldError(f.name, CodeNotADict, map[string]string{"type": typeName(raw)})
		}
		return f.record.toInternal(m, opt, errs), nil
	case KindList:
		items, ok := raw.([]any)
		if !ok {
			return nil, newFieldError(f.name, CodeNotAList, map[string]string{"type": typeName(raw)})
		}
		out := make([]any, 0, len(items))
		for _, it := range items {
			v, err := f.elem.internalValue(it, opt, errs)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case KindMap:
		items, ok := raw.(map[string]any)
		if !ok {
			return nil, newFieldError(f.name, CodeNotADict, map[string]string{"type": typeName(raw)})
		}
		out := make(map[string]any, len(items))
		for _, k := range slices.Sorted(maps.Keys(items)) {
			v, err := f.elem.internalValue(items[k], opt, errs)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return raw, nil
}
