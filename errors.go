package gorecord

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/reoring/gorecord/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired      = "required"
	CodeNull          = "null"
	CodeInvalid       = "invalid"
	CodeInvalidChoice = "invalid_choice"
	CodeNotADict      = "not_a_dict"
	CodeNotAList      = "not_a_list"
	CodeAssignment    = "assignment"
	CodeParseError    = "parse_error"
)

// NonFieldErrorsKey collects errors that do not belong to a single field.
const NonFieldErrorsKey = "non_field_errors"

// ConfigError reports an invalid serializer declaration. It is returned
// eagerly by New and ParseOptions and is never accumulated.
type ConfigError struct {
	Schema string // Serializer name, when known.
	Field  string // Offending field, when known.
	Msg    string
}

func (e *ConfigError) Error() string {
	b := &strings.Builder{}
	b.WriteString("gorecord: ")
	if e.Schema != "" {
		b.WriteString(e.Schema)
		b.WriteString(": ")
	}
	if e.Field != "" {
		fmt.Fprintf(b, "field %q: ", e.Field)
	}
	b.WriteString(e.Msg)
	return b.String()
}

func configErrorf(schema, field, format string, args ...any) *ConfigError {
	return &ConfigError{Schema: schema, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// FieldError is a single per-field failure. Messages are already translated.
type FieldError struct {
	Field    string
	Code     string
	Messages []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, strings.Join(e.Messages, " "))
}

func newFieldError(field, code string, data map[string]string) *FieldError {
	return &FieldError{Field: field, Code: code, Messages: []string{i18n.T(code, data)}}
}

// FieldAssignmentError is returned when a value cannot be stored on a record
// attribute. It is the only assignment failure folded into the accumulator;
// anything else raised while assigning aborts the update.
type FieldAssignmentError struct {
	Field string
	Type  string // Go type of the rejected value.
	Cause error
}

func (e *FieldAssignmentError) Error() string {
	msg := i18n.T(CodeAssignment, map[string]string{"type": e.Type})
	if e.Cause != nil {
		return msg + " " + e.Cause.Error()
	}
	return msg
}

func (e *FieldAssignmentError) Unwrap() error { return e.Cause }

// FieldErrors is the error accumulator: field name -> ordered messages.
// Nested failures share the same flat namespace.
type FieldErrors map[string][]string

// Add appends messages under field.
func (fe FieldErrors) Add(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	fe[field] = append(fe[field], msgs...)
}

// Merge appends every entry of other, keeping existing messages.
func (fe FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		fe.Add(k, v...)
	}
}

// Fields returns the failing field names sorted.
func (fe FieldErrors) Fields() []string {
	return slices.Sorted(maps.Keys(fe))
}

// absorb folds a known per-field error into the accumulator. It reports false
// for errors it does not recognise, which callers treat as fatal.
func (fe FieldErrors) absorb(field string, err error) bool {
	var ae *FieldAssignmentError
	if errors.As(err, &ae) {
		name := ae.Field
		if name == "" {
			name = field
		}
		fe.Add(name, ae.Error())
		return true
	}
	if detail, ok := toFieldErrors(err, field); ok {
		fe.Merge(detail)
		return true
	}
	return false
}

// ValidationError is the aggregate failure returned by Validate and Update.
// It carries every failing field at every depth.
type ValidationError struct {
	Errors FieldErrors
}

// Error summarizes the first few fields.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	const maxShown = 3
	names := e.Errors.Fields()
	b := &strings.Builder{}
	b.WriteString("validation failed: ")
	lim := min(len(names), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", names[i], strings.Join(e.Errors[names[i]], " "))
	}
	if len(names) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(names))
	}
	return b.String()
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
