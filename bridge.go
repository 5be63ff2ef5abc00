package gorecord

import (
	"errors"
	"fmt"
)

// NormalizeError converts a native validation failure into the wire shape of
// error details: a string stays a string, a list becomes []string, and a
// field-keyed mapping becomes map[string]any whose leaves are []string.
// Error values are unwrapped: *ValidationError and *FieldError become
// field-keyed mappings, any other error becomes a one-element list.
func NormalizeError(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			out = append(out, flattenMessages(NormalizeError(it))...)
		}
		return out
	case FieldErrors:
		return fieldErrorsToAny(t)
	case map[string][]string:
		return fieldErrorsToAny(FieldErrors(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			n := NormalizeError(vv)
			if s, ok := n.(string); ok {
				n = []string{s}
			}
			out[k] = n
		}
		return out
	case *ValidationError:
		return fieldErrorsToAny(t.Errors)
	case *FieldError:
		return map[string]any{t.Field: append([]string(nil), t.Messages...)}
	case error:
		var ve *ValidationError
		if errors.As(t, &ve) {
			return fieldErrorsToAny(ve.Errors)
		}
		var fe *FieldError
		if errors.As(t, &fe) {
			return NormalizeError(fe)
		}
		return []string{t.Error()}
	default:
		return []string{fmt.Sprint(t)}
	}
}

// ToFieldErrors converts a validation failure raised during reconciliation
// into accumulator entries. Nested mappings are flattened into the same
// namespace; bare messages are filed under NonFieldErrorsKey. It reports false
// when err is not a validation failure.
func ToFieldErrors(err error) (FieldErrors, bool) {
	return toFieldErrors(err, NonFieldErrorsKey)
}

// toFieldErrors files bare messages under key.
func toFieldErrors(err error, key string) (FieldErrors, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	var fe *FieldError
	var me *Messages
	switch {
	case errors.As(err, &ve):
	case errors.As(err, &fe):
	case errors.As(err, &me):
	default:
		return nil, false
	}
	out := FieldErrors{}
	switch {
	case ve != nil:
		out.Merge(ve.Errors)
	case fe != nil:
		out.Add(fe.Field, fe.Messages...)
	default:
		mergeNormalized(out, key, NormalizeError(me.Detail))
	}
	return out, true
}

// Messages is a free-form validation failure. Detail may be a string, a list
// of strings or a field-keyed mapping, and is normalized with NormalizeError.
// Setters and record hooks return it to report failures without naming a
// single field.
type Messages struct {
	Detail any
}

// NewMessages builds a *Messages from a detail value.
func NewMessages(detail any) *Messages { return &Messages{Detail: detail} }

func (m *Messages) Error() string { return fmt.Sprint(NormalizeError(m.Detail)) }

func mergeNormalized(dst FieldErrors, key string, v any) {
	switch t := v.(type) {
	case string:
		dst.Add(key, t)
	case []string:
		dst.Add(key, t...)
	case map[string]any:
		for k, vv := range t {
			mergeNormalized(dst, k, vv)
		}
	}
}

func flattenMessages(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case map[string]any:
		var out []string
		for _, vv := range t {
			out = append(out, flattenMessages(vv)...)
		}
		return out
	}
	return nil
}

func fieldErrorsToAny(fe FieldErrors) map[string]any {
	out := make(map[string]any, len(fe))
	for k, v := range fe {
		out[k] = append([]string(nil), v...)
	}
	return out
}
