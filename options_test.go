package gorecord_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/reoring/gorecord"
)

func TestLoadOptionsYAML(t *testing.T) {
	doc := []byte(`
name: AccountSerializer
fields: [id, name]
read_only_fields: [id]
depth: 2
extra_kwargs:
  name:
    source: email
    required: true
    allow_null: false
    choices: [a, b]
`)
	got, err := gorecord.LoadOptionsYAML(doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := gorecord.Options{
		Name:           "AccountSerializer",
		Fields:         []string{"id", "name"},
		ReadOnlyFields: []string{"id"},
		Depth:          gorecord.Int(2),
		ExtraKwargs: map[string]gorecord.FieldOptions{
			"name": {Source: "email", Required: gorecord.Bool(true), AllowNull: gorecord.Bool(false), Choices: []any{"a", "b"}},
		},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(gorecord.Options{}, "Validate", "Logger", "Base", "Setters", "Declared")); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	s, err := gorecord.New[User](got)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u, err := s.Save(&User{ID: 9}, map[string]any{"id": 1, "name": "a"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if u.ID != 9 || u.Email != "a" {
		t.Fatalf("unexpected record: %+v", u)
	}
}

func TestParseOptions_AllFieldsSentinel(t *testing.T) {
	got, err := gorecord.ParseOptions(map[string]any{"fields": "__all__"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{gorecord.AllFields}, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOptions_ShapeErrors(t *testing.T) {
	cases := []struct {
		name string
		in   map[string]any
		want string
	}{
		{"fields string", map[string]any{"fields": "id"}, "the `fields` option must be a list or \"__all__\". Got str."},
		{"exclude string", map[string]any{"exclude": "id"}, "the `exclude` option must be a list. Got str."},
		{"read only mapping", map[string]any{"read_only_fields": map[string]any{}}, "the `read_only_fields` option must be a list. Got dict."},
		{"misspelled", map[string]any{"readonly_fields": []any{"id"}}, "use `read_only_fields`"},
		{"unknown", map[string]any{"feilds": []any{"id"}}, `unknown option "feilds"`},
		{"depth range", map[string]any{"depth": 6}, "'depth' may not be greater than 5"},
		{"depth type", map[string]any{"depth": true}, "must be an integer"},
		{"fields items", map[string]any{"fields": []any{"id", 1}}, "must be a list"},
		{"kwargs shape", map[string]any{"extra_kwargs": []any{}}, "must be a mapping"},
		{"kwargs flag", map[string]any{"extra_kwargs": map[string]any{"id": map[string]any{"required": "yes"}}}, "`required` must be a boolean"},
		{"kwargs unknown", map[string]any{"extra_kwargs": map[string]any{"id": map[string]any{"many": true}}}, `unknown field option "many"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gorecord.ParseOptions(tc.in)
			var ce *gorecord.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestLoadOptionsYAML_Errors(t *testing.T) {
	if _, err := gorecord.LoadOptionsYAML([]byte("- a\n- b\n")); err == nil {
		t.Fatalf("expected error for a list document")
	}
	if _, err := gorecord.LoadOptionsYAML([]byte("fields: [a\n")); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
	got, err := gorecord.LoadOptionsYAML(nil)
	if err != nil || got.Fields != nil {
		t.Fatalf("empty document: %+v %v", got, err)
	}
}
