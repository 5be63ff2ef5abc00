package gorecord

import (
	"fmt"
	"maps"
	"slices"

	"github.com/reoring/gorecord/internal/wire"
)

// ParseOptions builds Options from a declarative mapping such as a decoded
// YAML or JSON document. Recognized keys are name, fields, exclude,
// read_only_fields, extra_kwargs and depth. Shapes are checked strictly;
// unknown keys are a *ConfigError.
func ParseOptions(m map[string]any) (Options, error) {
	var o Options
	name, _ := m["name"].(string)
	if v, ok := m["name"]; ok && v != nil {
		if _, isStr := v.(string); !isStr {
			return Options{}, configErrorf("", "", "the `name` option must be a string. Got %s.", typeName(v))
		}
	}
	o.Name = name

	for _, k := range slices.Sorted(maps.Keys(m)) {
		switch k {
		case "name", "fields", "exclude", "read_only_fields", "extra_kwargs", "depth":
		case "readonly_fields":
			return Options{}, configErrorf(name, "", "the `readonly_fields` option is not supported; use `read_only_fields`")
		default:
			return Options{}, configErrorf(name, "", "unknown option %q", k)
		}
	}

	if v, ok := m["fields"]; ok {
		if s, isStr := v.(string); isStr && s == AllFields {
			o.Fields = []string{AllFields}
		} else {
			names, err := stringList(v)
			if err != nil {
				return Options{}, configErrorf(name, "", "the `fields` option must be a list or %q. Got %s.", AllFields, typeName(v))
			}
			o.Fields = names
		}
	}
	if v, ok := m["exclude"]; ok {
		names, err := stringList(v)
		if err != nil {
			return Options{}, configErrorf(name, "", "the `exclude` option must be a list. Got %s.", typeName(v))
		}
		o.Exclude = names
	}
	if v, ok := m["read_only_fields"]; ok {
		names, err := stringList(v)
		if err != nil {
			return Options{}, configErrorf(name, "", "the `read_only_fields` option must be a list. Got %s.", typeName(v))
		}
		o.ReadOnlyFields = names
	}
	if v, ok := m["depth"]; ok {
		n, ok := decodeInt(v)
		if !ok {
			return Options{}, configErrorf(name, "", "the `depth` option must be an integer. Got %s.", typeName(v))
		}
		if n < 0 || n > MaxDepth {
			return Options{}, configErrorf(name, "", "'depth' may not be greater than %d or less than 0, got %d", MaxDepth, n)
		}
		o.Depth = Int(int(n))
	}
	if v, ok := m["extra_kwargs"]; ok {
		kw, isMap := v.(map[string]any)
		if !isMap {
			return Options{}, configErrorf(name, "", "the `extra_kwargs` option must be a mapping. Got %s.", typeName(v))
		}
		o.ExtraKwargs = make(map[string]FieldOptions, len(kw))
		for _, field := range slices.Sorted(maps.Keys(kw)) {
			fo, err := parseFieldOptions(name, field, kw[field])
			if err != nil {
				return Options{}, err
			}
			o.ExtraKwargs[field] = fo
		}
	}
	return o, nil
}

// LoadOptionsYAML parses a YAML options document with ParseOptions.
func LoadOptionsYAML(b []byte) (Options, error) {
	v, err := wire.DecodeYAML(b)
	if err != nil {
		return Options{}, &ConfigError{Msg: "invalid options document: " + err.Error()}
	}
	if v == nil {
		return Options{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Options{}, &ConfigError{Msg: "options document must be a mapping. Got " + typeName(v) + "."}
	}
	return ParseOptions(m)
}

func parseFieldOptions(schema, field string, v any) (FieldOptions, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return FieldOptions{}, configErrorf(schema, field, "extra_kwargs entry must be a mapping. Got %s.", typeName(v))
	}
	var fo FieldOptions
	flag := func(key string) (*bool, error) {
		raw, ok := m[key]
		if !ok {
			return nil, nil
		}
		b, isBool := raw.(bool)
		if !isBool {
			return nil, configErrorf(schema, field, "`%s` must be a boolean. Got %s.", key, typeName(raw))
		}
		return &b, nil
	}
	var err error
	for _, key := range slices.Sorted(maps.Keys(m)) {
		raw := m[key]
		switch key {
		case "source":
			s, isStr := raw.(string)
			if !isStr || s == "" {
				return FieldOptions{}, configErrorf(schema, field, "`source` must be a non-empty string. Got %s.", typeName(raw))
			}
			fo.Source = s
		case "required":
			fo.Required, err = flag(key)
		case "allow_null":
			fo.AllowNull, err = flag(key)
		case "allow_create":
			fo.AllowCreate, err = flag(key)
		case "allow_nested_updates":
			fo.AllowNestedUpdates, err = flag(key)
		case "read_only", "write_only":
			var b *bool
			if b, err = flag(key); b != nil {
				if key == "read_only" {
					fo.ReadOnly = *b
				} else {
					fo.WriteOnly = *b
				}
			}
		case "choices":
			items, isList := raw.([]any)
			if !isList {
				return FieldOptions{}, configErrorf(schema, field, "`choices` must be a list. Got %s.", typeName(raw))
			}
			fo.Choices = slices.Clone(items)
		default:
			return FieldOptions{}, configErrorf(schema, field, "unknown field option %q", key)
		}
		if err != nil {
			return FieldOptions{}, err
		}
	}
	return fo, nil
}

func stringList(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t), nil
	case []any:
		out := make([]string, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %s", typeName(it))
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list, got %s", typeName(v))
}
