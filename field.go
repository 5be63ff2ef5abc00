package gorecord

import (
	"fmt"
	"log/slog"
	"reflect"
)

// field is the immutable handler of one serializer field.
type field struct {
	name   string
	source string
	kind   Kind
	typ    reflect.Type // attribute type; nil for StarSource
	index  []int        // attribute index; nil for StarSource

	required           bool
	allowNull          bool
	allowCreate        bool
	allowNestedUpdates bool
	readOnly           bool
	writeOnly          bool
	choices            []any

	scalar *scalarCodec  // KindScalar, KindEnum
	record *recordSchema // KindNested
	elem   *field        // KindList, KindMap
	setter Setter
}

// star reports whether the field operates on the enclosing record itself.
func (f *field) star() bool { return f.source == StarSource }

// recordElem reports whether f is a container of records, which the engine
// reconciles element by element.
func (f *field) recordElem() bool {
	return (f.kind == KindList || f.kind == KindMap) && f.elem.kind == KindNested
}

// recordSchema is the untyped handler bound to one record type.
type recordSchema struct {
	name     string
	typ      reflect.Type // struct type
	fields   []*field
	writable []*field
	validate func(any) error
	log      *slog.Logger
}

// Declared is a field declared explicitly on Options.Declared.
type Declared interface {
	declaration() declaration
}

type declaration struct {
	opts  FieldOptions
	child *recordSchema
}

func (d declaration) declaration() declaration { return d }

// Override declares a field derived from the record attribute of the same
// name (or opts.Source) with opts in place of ExtraKwargs.
func Override(opts FieldOptions) Declared { return declaration{opts: opts} }

// Nested declares a field handled by child. opts.Many makes it a list of
// child records; opts.Source set to StarSource applies child to the enclosing
// record itself.
func Nested(child Handler, opts FieldOptions) Declared {
	return declaration{opts: opts, child: child.handler()}
}

// Handler is implemented by *Serializer values so they can be nested.
type Handler interface {
	handler() *recordSchema
}

func newRecordSchema(t reflect.Type, opts *Options, depth int) (*recordSchema, error) {
	name := opts.Name
	if name == "" {
		name = t.Name() + "Serializer"
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &recordSchema{name: name, typ: t, validate: opts.Validate, log: log}

	attrs := recordAttributes(t)
	byKey := make(map[string]attribute, len(attrs))
	for _, a := range attrs {
		byKey[a.key] = a
	}
	names, err := resolveFieldNames(name, opts, attrs)
	if err != nil {
		return nil, err
	}
	extra := extraOptions(opts)
	declared := opts.declaredFields()
	b := fieldBuilder{schema: s, attrs: byKey, log: log}

	sources := map[string]string{}
	for _, fname := range names {
		var f *field
		if d, ok := declared[fname]; ok {
			f, err = b.buildDeclared(fname, d.declaration(), depth)
		} else {
			f, err = b.buildField(fname, extra[fname], depth)
		}
		if err != nil {
			return nil, err
		}
		if prev, dup := sources[f.source]; dup {
			return nil, configErrorf(name, fname, "source %q is already used by field %q", f.source, prev)
		}
		sources[f.source] = fname
		s.fields = append(s.fields, f)
	}
	for fname, setter := range opts.Setters {
		f := s.field(fname)
		if f == nil {
			return nil, configErrorf(name, fname, "setter defined for a field that is not exposed")
		}
		f.setter = setter
	}
	for _, f := range s.fields {
		if !f.readOnly {
			s.writable = append(s.writable, f)
		}
	}
	return s, nil
}

func (s *recordSchema) field(name string) *field {
	for _, f := range s.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

type fieldBuilder struct {
	schema *recordSchema
	attrs  map[string]attribute
	log    *slog.Logger
}

func (b fieldBuilder) errorf(field, format string, args ...any) *ConfigError {
	return configErrorf(b.schema.name, field, format, args...)
}

// buildField derives the handler of one attribute-backed field.
func (b fieldBuilder) buildField(name string, fo FieldOptions, depth int) (*field, error) {
	source := fo.Source
	if source == "" {
		source = name
	}
	if source == StarSource {
		return nil, b.errorf(name, "source %q requires a declared Nested field", StarSource)
	}
	a, ok := b.attrs[source]
	if !ok {
		return nil, b.errorf(name, "does not match any attribute of %s", b.schema.typ)
	}
	res, err := Resolve(a.typ)
	if err != nil {
		return nil, b.errorf(name, "%s", err.(*ConfigError).Msg)
	}
	f, err := b.fromResolution(name, res, depth)
	if err != nil {
		return nil, err
	}
	f.source, f.typ, f.index = source, a.typ, a.index
	return f, b.applyOptions(f, fo)
}

// fromResolution builds the handler shape for res; options are applied by
// the caller.
func (b fieldBuilder) fromResolution(name string, res Resolution, depth int) (*field, error) {
	f := &field{
		name:               name,
		source:             name,
		kind:               res.Kind,
		typ:                res.Type,
		allowCreate:        true,
		allowNestedUpdates: true,
	}
	switch res.Kind {
	case KindScalar, KindEnum:
		f.scalar = res.scalar
		f.choices = res.Choices
		f.allowNull = res.Nullable
	case KindNested:
		if depth == 0 {
			f.kind = KindFlat
			return f, nil
		}
		child, err := newRecordSchema(res.Record, &Options{Logger: b.log}, depth-1)
		if err != nil {
			return nil, err
		}
		f.record = child
	case KindList, KindMap:
		if depth == 0 {
			f.kind = KindFlat
			return f, nil
		}
		elem, err := b.fromResolution(name, *res.Elem, depth)
		if err != nil {
			return nil, err
		}
		if res.Kind == KindMap && elem.scalar != nil {
			elem.allowNull = true
		}
		f.elem = elem
	}
	return f, nil
}

func (b fieldBuilder) applyOptions(f *field, fo FieldOptions) error {
	if fo.Required != nil {
		f.required = *fo.Required
	}
	if fo.AllowNull != nil {
		f.allowNull = *fo.AllowNull
	}
	if fo.AllowCreate != nil {
		f.allowCreate = *fo.AllowCreate
	}
	if fo.AllowNestedUpdates != nil {
		f.allowNestedUpdates = *fo.AllowNestedUpdates
	}
	f.readOnly, f.writeOnly = fo.ReadOnly, fo.WriteOnly
	if f.readOnly && f.writeOnly {
		return b.errorf(f.name, "may not be both read-only and write-only")
	}
	if fo.Choices != nil {
		if f.scalar == nil {
			return b.errorf(f.name, "choices are only supported on scalar fields")
		}
		choices := make([]any, 0, len(fo.Choices))
		for _, c := range fo.Choices {
			rv, ok := f.scalar.decode(c)
			if !ok {
				return b.errorf(f.name, "choice %v is not a valid %s", c, f.scalar.label)
			}
			choices = append(choices, rv.Interface())
		}
		f.choices = choices
	}
	return nil
}

// buildDeclared builds a field from an explicit declaration.
func (b fieldBuilder) buildDeclared(name string, d declaration, depth int) (*field, error) {
	if d.child == nil {
		return b.buildField(name, d.opts, depth)
	}
	source := d.opts.Source
	if source == "" {
		source = name
	}
	f := &field{
		name:               name,
		source:             source,
		kind:               KindNested,
		record:             d.child,
		allowCreate:        true,
		allowNestedUpdates: true,
	}
	if source == StarSource {
		if d.opts.Many {
			return nil, b.errorf(name, "a list field cannot use source %q", StarSource)
		}
		if d.child.typ != b.schema.typ {
			return nil, b.errorf(name, "source %q requires a %s serializer, got %s", StarSource, b.schema.typ, d.child.typ)
		}
		return f, b.applyOptions(f, d.opts)
	}
	a, ok := b.attrs[source]
	if !ok {
		return nil, b.errorf(name, "does not match any attribute of %s", b.schema.typ)
	}
	f.typ, f.index = a.typ, a.index
	want := a.typ
	if d.opts.Many {
		if want.Kind() != reflect.Slice {
			return nil, b.errorf(name, "many=true requires a slice attribute, got %s", want)
		}
		want = want.Elem()
		f.kind = KindList
		f.elem = &field{name: name, source: name, kind: KindNested, typ: want, record: d.child}
	}
	if rt, ok := recordType(want); !ok || rt != d.child.typ {
		return nil, b.errorf(name, "attribute type %s does not match serializer %s", want, d.child.name)
	}
	return f, b.applyOptions(f, d.opts)
}

func (f *field) String() string { return fmt.Sprintf("%s(%s<-%s)", f.kind, f.name, f.source) }
