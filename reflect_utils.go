package gorecord

import (
	"reflect"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// attribute key.
// Priority: gorecord:"name=..." > json tag name > field name; "-" hides the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("gorecord"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// attribute is a record attribute descriptor: key, declared type and the
// struct field index used to reach it.
type attribute struct {
	key   string
	typ   reflect.Type
	index []int
}

// recordAttributes lists the exported attributes of struct type t in
// declaration order. Embedded structs without a name tag are flattened the way
// encoding/json does.
func recordAttributes(t reflect.Type) []attribute {
	var out []attribute
	seen := map[string]bool{}
	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			idx := append(append([]int(nil), prefix...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "" && sf.Tag.Get("gorecord") == "" {
				walk(sf.Type, idx)
				continue
			}
			if !sf.IsExported() {
				continue
			}
			key := ResolveStructKey(sf)
			if key == "-" || key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, attribute{key: key, typ: sf.Type, index: idx})
		}
	}
	walk(t, nil)
	return out
}

// recordType strips one pointer level and reports whether t names a struct.
func recordType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case map[string]any:
		return "dict"
	case []any:
		return "list"
	case string:
		return "str"
	}
	return reflect.TypeOf(v).String()
}
