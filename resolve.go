package gorecord

import (
	"reflect"
)

// Resolution is the outcome of resolving a declared attribute type.
type Resolution struct {
	Kind Kind
	Type reflect.Type
	// Nullable is set for pointer types.
	Nullable bool
	// Record is the struct type of a KindNested resolution.
	Record reflect.Type
	// Elem describes list elements and map values.
	Elem *Resolution
	// Choices lists the legal values of a KindEnum resolution.
	Choices []any

	scalar *scalarCodec
}

// Resolve maps a declared Go type to its handler kind. Slices resolve to
// KindList and maps to KindMap regardless of depth; the depth fallback to
// KindFlat is applied by field construction.
func Resolve(t reflect.Type) (Resolution, error) {
	if c, ok := lookupScalar(t); ok {
		return scalarResolution(t, c, false), nil
	}
	if t.Kind() == reflect.Pointer {
		if c, ok := lookupScalar(t.Elem()); ok {
			return scalarResolution(t, c, true), nil
		}
	}
	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Resolution{}, &ConfigError{Msg: "byte slices are not supported: " + t.String()}
		}
		elem, err := Resolve(t.Elem())
		if err != nil {
			return Resolution{}, &ConfigError{Msg: "list element type of " + t.String() + ": " + err.(*ConfigError).Msg}
		}
		return Resolution{Kind: KindList, Type: t, Nullable: true, Elem: &elem}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Resolution{}, &ConfigError{Msg: "map keys must be strings: " + t.String()}
		}
		elem, err := Resolve(t.Elem())
		if err != nil {
			return Resolution{}, &ConfigError{Msg: "map value type of " + t.String() + ": " + err.(*ConfigError).Msg}
		}
		return Resolution{Kind: KindMap, Type: t, Nullable: true, Elem: &elem}, nil
	}
	if rt, ok := recordType(t); ok {
		return Resolution{Kind: KindNested, Type: t, Nullable: t.Kind() == reflect.Pointer, Record: rt}, nil
	}
	return Resolution{}, &ConfigError{Msg: "cannot resolve a handler for type " + t.String()}
}

func scalarResolution(t reflect.Type, c *scalarCodec, nullable bool) Resolution {
	r := Resolution{Kind: KindScalar, Type: t, Nullable: nullable, scalar: c}
	if c.enum {
		r.Kind = KindEnum
		r.Choices = append([]any(nil), c.choices...)
	}
	return r
}
