package gorecord

import (
	"maps"
	"reflect"
	"slices"
)

// update reconciles validated data into inst, creating the record when inst
// is nil. Errors and the returned record are mutually exclusive.
func (s *recordSchema) update(inst reflect.Value, data map[string]any) (reflect.Value, error) {
	if !inst.IsValid() || inst.IsNil() {
		inst = reflect.New(s.typ)
	}
	errs := FieldErrors{}
	out, err := s.performUpdate(inst, data, errs)
	if err != nil && !errs.absorb(NonFieldErrorsKey, err) {
		return reflect.Value{}, err
	}
	if len(errs) > 0 {
		return reflect.Value{}, &ValidationError{Errors: errs}
	}
	return out, nil
}

// performUpdate applies data to every writable field of inst in declaration
// order. Per-field validation failures land in errs and never stop sibling
// fields; the returned error is either fatal or raised by the record hook.
func (s *recordSchema) performUpdate(inst reflect.Value, data map[string]any, errs FieldErrors) (reflect.Value, error) {
	for _, f := range s.writable {
		err := s.updateField(inst, f, data, errs)
		if err == nil || errs.absorb(f.name, err) {
			continue
		}
		s.log.Warn("update aborted", "serializer", s.name, "field", f.name, "error", err)
		return inst, err
	}
	if s.validate != nil {
		if err := s.validate(inst.Interface()); err != nil {
			return inst, err
		}
	}
	return inst, nil
}

func (s *recordSchema) updateField(inst reflect.Value, f *field, data map[string]any, errs FieldErrors) error {
	switch {
	case f.kind == KindNested:
		return s.updateNested(inst, f, data, errs)
	case f.recordElem() && f.kind == KindList:
		return s.updateList(inst, f, data, errs)
	case f.recordElem() && f.kind == KindMap:
		return s.updateMap(inst, f, data, errs)
	}
	value, ok := data[f.source]
	if !ok {
		return nil
	}
	if f.setter != nil {
		return f.setter(inst.Interface(), f.source, value)
	}
	convert := coerce
	if f.kind == KindFlat {
		convert = flatDecode
	}
	rv, err := convert(value, f.typ)
	if err != nil {
		return withField(err, f.name)
	}
	s.attr(inst, f).Set(rv)
	return nil
}

func (s *recordSchema) updateNested(inst reflect.Value, f *field, data map[string]any, errs FieldErrors) error {
	var value any = data
	child := inst
	if !f.star() {
		raw, ok := data[f.source]
		if !ok {
			return nil
		}
		value = raw
		var err error
		child, err = s.getObject(f, f.record, raw, childRef(s.attr(inst, f)))
		if err != nil {
			return err
		}
	}
	if child.IsValid() {
		m, err := recordData(f, value)
		if err != nil {
			return err
		}
		if child, err = f.record.performUpdate(child, m, errs); err != nil {
			return err
		}
	}
	if f.star() {
		if f.setter == nil {
			return nil
		}
		return f.setter(inst.Interface(), f.source, child.Interface())
	}
	return s.set(inst, f, storeChild(child, f.typ))
}

// updateList pairs incoming elements with existing ones by position; the
// shorter side is padded with nothing. Elements that resolve to nil are
// dropped from the rebuilt list.
func (s *recordSchema) updateList(inst reflect.Value, f *field, data map[string]any, errs FieldErrors) error {
	raw, ok := data[f.source]
	if !ok {
		return nil
	}
	if raw == nil {
		return s.set(inst, f, reflect.Zero(f.typ))
	}
	items, ok := raw.([]any)
	if !ok {
		return newFieldError(f.name, CodeNotAList, map[string]string{"type": typeName(raw)})
	}
	current := s.attr(inst, f)
	n := max(len(items), current.Len())
	out := reflect.MakeSlice(f.typ, 0, n)
	for i := 0; i < n; i++ {
		var item any
		if i < len(items) {
			item = items[i]
		}
		var cur reflect.Value
		if i < current.Len() {
			cur = childRef(current.Index(i))
		}
		obj, err := s.reconcileElem(f, item, cur, errs)
		if err != nil {
			return err
		}
		if obj.IsValid() {
			out = reflect.Append(out, storeChild(obj, f.typ.Elem()))
		}
	}
	return s.set(inst, f, out)
}

// updateMap rebuilds a mapping of records from the incoming keys. Existing
// values are reused by key; keys that resolve to nil are dropped.
func (s *recordSchema) updateMap(inst reflect.Value, f *field, data map[string]any, errs FieldErrors) error {
	raw, ok := data[f.source]
	if !ok {
		return nil
	}
	if raw == nil {
		return s.set(inst, f, reflect.Zero(f.typ))
	}
	items, ok := raw.(map[string]any)
	if !ok {
		return newFieldError(f.name, CodeNotADict, map[string]string{"type": typeName(raw)})
	}
	current := s.attr(inst, f)
	out := reflect.MakeMapWithSize(f.typ, len(items))
	for _, k := range slices.Sorted(maps.Keys(items)) {
		key := reflect.ValueOf(k).Convert(f.typ.Key())
		var cur reflect.Value
		if !current.IsNil() {
			if v := current.MapIndex(key); v.IsValid() {
				cur = childRef(v)
			}
		}
		obj, err := s.reconcileElem(f, items[k], cur, errs)
		if err != nil {
			return err
		}
		if obj.IsValid() {
			out.SetMapIndex(key, storeChild(obj, f.typ.Elem()))
		}
	}
	return s.set(inst, f, out)
}

// reconcileElem resolves one container element and recurses into it when the
// field permits creating or updating nested records.
func (s *recordSchema) reconcileElem(f *field, item any, cur reflect.Value, errs FieldErrors) (reflect.Value, error) {
	rec := f.elem.record
	obj, err := s.getObject(f, rec, item, cur)
	if err != nil || !obj.IsValid() {
		return reflect.Value{}, err
	}
	if !f.allowCreate && !f.allowNestedUpdates {
		return obj, nil
	}
	m, err := recordData(f, item)
	if err != nil {
		return reflect.Value{}, err
	}
	return rec.performUpdate(obj, m, errs)
}

// getObject decides which child record a nested value is applied to:
// nothing for null, the existing child when there is one, a new record when
// creation is allowed, nothing when null is acceptable, else a required
// error.
func (s *recordSchema) getObject(f *field, rec *recordSchema, value any, current reflect.Value) (reflect.Value, error) {
	switch {
	case value == nil:
		s.log.Debug("child set to null", "serializer", s.name, "field", f.name)
		return reflect.Value{}, nil
	case current.IsValid():
		s.log.Debug("child updated in place", "serializer", s.name, "field", f.name)
		return current, nil
	case f.allowCreate:
		s.log.Debug("child created", "serializer", s.name, "field", f.name, "record", rec.typ.String())
		return reflect.New(rec.typ), nil
	case f.allowNull:
		s.log.Debug("child resolved to null", "serializer", s.name, "field", f.name)
		return reflect.Value{}, nil
	}
	return reflect.Value{}, newFieldError(f.name, CodeRequired, nil)
}

// set stores rv on the attribute behind f, through the custom setter when the
// field has one.
func (s *recordSchema) set(inst reflect.Value, f *field, rv reflect.Value) error {
	if f.setter != nil {
		var v any
		if rv.IsValid() {
			v = rv.Interface()
		}
		return f.setter(inst.Interface(), f.source, v)
	}
	s.attr(inst, f).Set(rv)
	return nil
}

func (s *recordSchema) attr(inst reflect.Value, f *field) reflect.Value {
	return inst.Elem().FieldByIndex(f.index)
}

// childRef returns a pointer to the record held in v, or the invalid Value
// when v holds none. Values that are not addressable are copied.
func childRef(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Value{}
		}
		return v
	case reflect.Struct:
		if v.CanAddr() {
			return v.Addr()
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p
	}
	return reflect.Value{}
}

// storeChild converts a record pointer (or the invalid Value for none) to a
// value assignable to t.
func storeChild(p reflect.Value, t reflect.Type) reflect.Value {
	if !p.IsValid() {
		return reflect.Zero(t)
	}
	if t.Kind() == reflect.Pointer {
		return p
	}
	return p.Elem()
}

func recordData(f *field, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, newFieldError(f.name, CodeNotADict, map[string]string{"type": typeName(v)})
	}
	return m, nil
}
