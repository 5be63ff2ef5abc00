package gorecord

import "log/slog"

// Kind is the closed set of handler kinds a record attribute resolves to.
type Kind uint8

const (
	KindScalar Kind = iota // Registered scalar or basic kind.
	KindEnum               // Scalar with a closed set of legal values.
	KindNested             // Nested record (struct or *struct).
	KindList               // Slice of records or scalars.
	KindMap                // map[string]V of records or scalars.
	KindFlat               // Container or record past the depth budget, converted wholesale.
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindNested:
		return "nested"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFlat:
		return "flat"
	default:
		return "unknown"
	}
}

const (
	// AllFields selects every record attribute when used as the only entry of
	// Options.Fields.
	AllFields = "__all__"
	// StarSource makes a nested field operate on the enclosing record itself.
	StarSource = "*"
	// MaxDepth is the upper bound (and default) of Options.Depth.
	MaxDepth = 5
)

// FieldOptions are per-field overrides. Nil pointers keep the default.
type FieldOptions struct {
	Source             string
	Required           *bool
	AllowNull          *bool
	AllowCreate        *bool
	AllowNestedUpdates *bool
	ReadOnly           bool
	WriteOnly          bool
	// Choices restricts a scalar field to the listed values.
	Choices []any
	// Many turns a Nested declared field into a list of the child record.
	Many bool
}

// Bool returns a pointer to b, for FieldOptions literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for Options.Depth.
func Int(n int) *int { return &n }

// Setter stores value on instance in place of direct attribute assignment.
// instance is a pointer to the record; source is the attribute key. Return a
// *FieldError, *FieldAssignmentError, *Messages or *ValidationError to report
// a validation failure; any other error aborts the update.
type Setter func(instance any, source string, value any) error

// Options configures a Serializer.
type Options struct {
	// Name is used in configuration errors. Defaults to "<Type>Serializer".
	Name string
	// Fields is an allow-list of field names, or []string{AllFields}.
	Fields []string
	// Exclude removes names from the default field set.
	Exclude []string
	// ReadOnlyFields marks fields read-only without removing them.
	ReadOnlyFields []string
	// ExtraKwargs holds per-field overrides keyed by field name.
	ExtraKwargs map[string]FieldOptions
	// Depth is the nesting budget for derived nested serializers (0..MaxDepth).
	// Nil means MaxDepth.
	Depth *int
	// Declared holds fields declared explicitly instead of derived from the
	// record type.
	Declared map[string]Declared
	// Base is the options this serializer extends. Declared fields inherited
	// from Base need not be listed in Fields.
	Base *Options
	// Setters are custom assignment hooks keyed by field name.
	Setters map[string]Setter
	// Validate runs after every field of a record has been reconciled.
	Validate func(instance any) error
	// Logger receives debug records about reconciliation decisions.
	Logger *slog.Logger
}

// declaredFields returns the declared fields visible on o, base first.
func (o *Options) declaredFields() map[string]Declared {
	out := map[string]Declared{}
	if o == nil {
		return out
	}
	for k, v := range o.Base.declaredFields() {
		out[k] = v
	}
	for k, v := range o.Declared {
		out[k] = v
	}
	return out
}

// ValidateOpt tunes input validation.
type ValidateOpt struct {
	// Partial skips required checks for missing fields.
	Partial bool
}
