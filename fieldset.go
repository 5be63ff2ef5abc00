package gorecord

import (
	"maps"
	"slices"
)

// resolveFieldNames computes the ordered names of the fields a serializer
// exposes.
func resolveFieldNames(schema string, opts *Options, attrs []attribute) ([]string, error) {
	fields, exclude := opts.Fields, opts.Exclude
	if fields != nil && exclude != nil {
		return nil, configErrorf(schema, "", "cannot set both 'fields' and 'exclude' options")
	}
	declared := opts.declaredFields()

	if slices.Contains(fields, AllFields) {
		if len(fields) != 1 {
			return nil, configErrorf(schema, "", "the 'fields' option must be a list of names or %q alone", AllFields)
		}
		fields = nil
	}

	if fields != nil {
		// Fields declared on a base are not required, so extensions may
		// expose a subset.
		inherited := opts.Base.declaredFields()
		for _, name := range slices.Sorted(maps.Keys(opts.Declared)) {
			if _, ok := inherited[name]; ok {
				continue
			}
			if !slices.Contains(fields, name) {
				return nil, configErrorf(schema, name, "declared on the serializer but not included in the 'fields' option")
			}
		}
		seen := make(map[string]bool, len(fields))
		for _, name := range fields {
			if seen[name] {
				return nil, configErrorf(schema, name, "listed more than once in the 'fields' option")
			}
			seen[name] = true
		}
		return slices.Clone(fields), nil
	}

	names := defaultFieldNames(attrs, declared)
	for _, name := range exclude {
		if _, ok := declared[name]; ok {
			return nil, configErrorf(schema, name, "cannot both declare the field and include it in the 'exclude' option")
		}
		i := slices.Index(names, name)
		if i < 0 {
			return nil, configErrorf(schema, name, "included in the 'exclude' option but does not match any attribute")
		}
		names = slices.Delete(names, i, i+1)
	}
	return names, nil
}

// defaultFieldNames is every attribute in declaration order followed by the
// declared fields that are not attributes, sorted.
func defaultFieldNames(attrs []attribute, declared map[string]Declared) []string {
	names := make([]string, 0, len(attrs)+len(declared))
	for _, a := range attrs {
		names = append(names, a.key)
	}
	var extra []string
	for name := range declared {
		if !slices.Contains(names, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}

// extraOptions returns fresh per-field overrides with ReadOnlyFields applied.
func extraOptions(opts *Options) map[string]FieldOptions {
	out := make(map[string]FieldOptions, len(opts.ExtraKwargs)+len(opts.ReadOnlyFields))
	for k, v := range opts.ExtraKwargs {
		v.Choices = slices.Clone(v.Choices)
		out[k] = v
	}
	for _, name := range opts.ReadOnlyFields {
		fo := out[name]
		fo.ReadOnly = true
		out[name] = fo
	}
	return out
}
