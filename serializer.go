package gorecord

import (
	"errors"
	"reflect"
)

// Serializer binds a record type T to its derived field set. It is immutable
// after New and safe for concurrent use.
type Serializer[T any] struct {
	s *recordSchema
}

// New derives the serializer of struct type T from opts. Invalid options are
// reported as *ConfigError.
func New[T any](opts Options) (*Serializer[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, &ConfigError{Schema: opts.Name, Msg: "record type must be a struct, got " + t.String()}
	}
	depth := MaxDepth
	if opts.Depth != nil {
		depth = *opts.Depth
	}
	if depth < 0 || depth > MaxDepth {
		return nil, configErrorf(opts.Name, "", "'depth' may not be greater than %d or less than 0, got %d", MaxDepth, depth)
	}
	s, err := newRecordSchema(t, &opts, depth)
	if err != nil {
		return nil, err
	}
	return &Serializer[T]{s: s}, nil
}

// MustNew is like New but panics on error.
func MustNew[T any](opts Options) *Serializer[T] {
	s, err := New[T](opts)
	if err != nil {
		panic(err)
	}
	return s
}

func (z *Serializer[T]) handler() *recordSchema { return z.s }

// Name returns the serializer name used in error messages.
func (z *Serializer[T]) Name() string { return z.s.name }

// FieldInfo describes one derived field.
type FieldInfo struct {
	Name   string
	Source string
	Kind   Kind
	Type   reflect.Type // nil for StarSource

	Required           bool
	AllowNull          bool
	AllowCreate        bool
	AllowNestedUpdates bool
	ReadOnly           bool
	WriteOnly          bool
	Choices            []any
	HasSetter          bool

	Fields []FieldInfo // KindNested
	Elem   *FieldInfo  // KindList, KindMap
}

// Fields returns the derived fields in declaration order.
func (z *Serializer[T]) Fields() []FieldInfo { return z.s.infos() }

func (s *recordSchema) infos() []FieldInfo {
	out := make([]FieldInfo, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.info())
	}
	return out
}

func (f *field) info() FieldInfo {
	fs := FieldInfo{
		Name:               f.name,
		Source:             f.source,
		Kind:               f.kind,
		Type:               f.typ,
		Required:           f.required,
		AllowNull:          f.allowNull,
		AllowCreate:        f.allowCreate,
		AllowNestedUpdates: f.allowNestedUpdates,
		ReadOnly:           f.readOnly,
		WriteOnly:          f.writeOnly,
		Choices:            f.choices,
		HasSetter:          f.setter != nil,
	}
	if f.kind == KindNested {
		fs.Fields = f.record.infos()
	}
	if f.elem != nil {
		e := f.elem.info()
		fs.Elem = &e
	}
	return fs
}

// Validate coerces raw wire data into validated input keyed by source. Every
// failing field is reported in one *ValidationError.
func (z *Serializer[T]) Validate(data map[string]any, opts ...ValidateOpt) (map[string]any, error) {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[0]
	}
	errs := FieldErrors{}
	out := z.s.toInternal(data, opt, errs)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return out, nil
}

// Update reconciles validated data into instance, creating a new record when
// instance is nil. Per-field failures at every depth are returned together as
// a *ValidationError; other errors abort the update and are returned as is.
func (z *Serializer[T]) Update(instance *T, validated map[string]any) (*T, error) {
	out, err := z.s.update(reflect.ValueOf(instance), validated)
	if err != nil {
		return nil, err
	}
	return out.Interface().(*T), nil
}

// Create is Update on a new record.
func (z *Serializer[T]) Create(validated map[string]any) (*T, error) {
	return z.Update(nil, validated)
}

// PerformUpdate applies validated data to instance, collecting per-field
// failures into errs instead of returning them. It is the building block for
// serializers that reconcile several records into one error report.
func (z *Serializer[T]) PerformUpdate(instance *T, validated map[string]any, errs FieldErrors) error {
	if instance == nil {
		return errors.New("gorecord: PerformUpdate requires an instance")
	}
	_, err := z.s.performUpdate(reflect.ValueOf(instance), validated, errs)
	return err
}

// Save validates data and reconciles it into instance.
func (z *Serializer[T]) Save(instance *T, data map[string]any, opts ...ValidateOpt) (*T, error) {
	validated, err := z.Validate(data, opts...)
	if err != nil {
		return nil, err
	}
	return z.Update(instance, validated)
}

// Represent extracts instance into wire form keyed by field name.
func (z *Serializer[T]) Represent(instance *T) (map[string]any, error) {
	if instance == nil {
		return nil, errors.New("gorecord: cannot represent a nil record")
	}
	return z.s.represent(reflect.ValueOf(instance))
}
