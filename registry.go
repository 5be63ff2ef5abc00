package gorecord

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Enum is implemented by named types with a closed set of legal values. The
// method is called on the zero value, so it must not depend on the receiver.
type Enum interface {
	EnumValues() []any
}

// scalarCodec converts between wire values and one Go type.
type scalarCodec struct {
	typ     reflect.Type
	label   string // used in "A valid {type} is required."
	enum    bool
	choices []any // typed values; only for enums
	decode  func(v any) (reflect.Value, bool)
	encode  func(rv reflect.Value) any
}

func (c *scalarCodec) allowed(v any) bool {
	return !c.enum || slices.Contains(c.choices, v)
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]*scalarCodec{}
)

// RegisterScalar adds T to the scalar registry. decode converts a wire value
// (or an already-typed value) into T and encode converts T back to its wire
// form. Register from init: the registry is shared by every serializer and
// serializers built before a registration do not observe it.
func RegisterScalar[T any](label string, decode func(v any) (T, error), encode func(T) any) {
	t := reflect.TypeFor[T]()
	c := &scalarCodec{
		typ:   t,
		label: label,
		decode: func(v any) (reflect.Value, bool) {
			if tv, ok := v.(T); ok {
				return reflect.ValueOf(&tv).Elem(), true
			}
			out, err := decode(v)
			if err != nil {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(&out).Elem(), true
		},
		encode: func(rv reflect.Value) any { return encode(rv.Interface().(T)) },
	}
	registryMu.Lock()
	registry[t] = c
	registryMu.Unlock()
}

// RegisterEnum registers T as an enum whose legal values are values. T must
// have a basic underlying kind (string, integer, float or bool) or be a
// registered scalar.
func RegisterEnum[T comparable](values ...T) {
	t := reflect.TypeFor[T]()
	base, ok := lookupScalar(t)
	if !ok {
		panic(fmt.Sprintf("gorecord: RegisterEnum: %s has no scalar representation", t))
	}
	choices := make([]any, len(values))
	for i, v := range values {
		choices[i] = v
	}
	c := *base
	c.enum = true
	c.choices = choices
	registryMu.Lock()
	registry[t] = &c
	registryMu.Unlock()
}

// lookupScalar resolves t against the registry, the Enum interface and the
// basic kinds, in that order.
func lookupScalar(t reflect.Type) (*scalarCodec, bool) {
	registryMu.RLock()
	c, ok := registry[t]
	registryMu.RUnlock()
	if ok {
		return c, true
	}
	base := basicCodec(t)
	if t.Implements(reflect.TypeFor[Enum]()) && base != nil {
		e := *base
		e.enum = true
		e.choices = reflect.Zero(t).Interface().(Enum).EnumValues()
		return &e, true
	}
	return base, base != nil
}

var builtinKinds = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.String:  reflect.TypeFor[string](),
}

// basicCodec builds a codec for any type whose kind is a Go basic kind.
// Values decode into the builtin kind first and are then converted to t.
func basicCodec(t reflect.Type) *scalarCodec {
	builtin, ok := builtinKinds[t.Kind()]
	if !ok {
		return nil
	}
	c := &scalarCodec{typ: t}
	switch t.Kind() {
	case reflect.Bool:
		c.label = "boolean"
		c.decode = func(v any) (reflect.Value, bool) {
			b, ok := decodeBool(v)
			return reflect.ValueOf(b).Convert(t), ok
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		c.label = "integer"
		c.decode = func(v any) (reflect.Value, bool) {
			n, ok := decodeInt(v)
			if !ok || reflect.Zero(t).OverflowInt(n) {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(n).Convert(t), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		c.label = "integer"
		c.decode = func(v any) (reflect.Value, bool) {
			n, ok := decodeUint(v)
			if !ok || reflect.Zero(t).OverflowUint(n) {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(n).Convert(t), true
		}
	case reflect.Float32, reflect.Float64:
		c.label = "number"
		c.decode = func(v any) (reflect.Value, bool) {
			f, ok := decodeFloat(v)
			if !ok || reflect.Zero(t).OverflowFloat(f) {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(f).Convert(t), true
		}
	case reflect.String:
		c.label = "string"
		c.decode = func(v any) (reflect.Value, bool) {
			rv := reflect.ValueOf(v)
			if v == nil || rv.Kind() != reflect.String {
				return reflect.Value{}, false
			}
			return rv.Convert(t), true
		}
	}
	c.encode = func(rv reflect.Value) any { return rv.Convert(builtin).Interface() }
	return c
}

func decodeBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	rv := reflect.ValueOf(v)
	if v != nil && rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func decodeInt(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		return floatToInt(f, err == nil)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return 0, false
		}
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return floatToInt(rv.Float(), true)
	}
	return 0, false
}

func floatToInt(f float64, ok bool) (int64, bool) {
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func decodeUint(v any) (uint64, bool) {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		return n, err == nil
	}
	if v != nil {
		if rv := reflect.ValueOf(v); rv.Kind() >= reflect.Uint && rv.Kind() <= reflect.Uint64 {
			return rv.Uint(), true
		}
	}
	n, ok := decodeInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

func decodeFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

var errNotString = fmt.Errorf("expected string")

func init() {
	RegisterScalar("datetime",
		func(v any) (time.Time, error) {
			s, ok := v.(string)
			if !ok {
				return time.Time{}, errNotString
			}
			return parseRFC3339(s)
		},
		func(t time.Time) any { return t.UTC().Format(time.RFC3339Nano) },
	)
	RegisterScalar("duration",
		func(v any) (time.Duration, error) {
			s, ok := v.(string)
			if !ok {
				return 0, errNotString
			}
			return time.ParseDuration(s)
		},
		func(d time.Duration) any { return d.String() },
	)
	RegisterScalar("number",
		func(v any) (json.Number, error) {
			if s, ok := v.(string); ok {
				if _, err := strconv.ParseFloat(s, 64); err != nil {
					return "", err
				}
				return json.Number(s), nil
			}
			f, ok := decodeFloat(v)
			if !ok {
				return "", fmt.Errorf("expected number, got %T", v)
			}
			return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
		},
		func(n json.Number) any { return n },
	)
	RegisterScalar("UUID",
		func(v any) (uuid.UUID, error) {
			s, ok := v.(string)
			if !ok {
				return uuid.Nil, errNotString
			}
			return uuid.Parse(s)
		},
		func(u uuid.UUID) any { return u.String() },
	)
}
