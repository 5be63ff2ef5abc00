package gorecord_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/gorecord"
)

func TestNormalizeError(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"string", "bad", "bad"},
		{"list", []any{"a", []string{"b", "c"}}, []string{"a", "b", "c"}},
		{"mapping", map[string]any{"x": "bad", "y": []any{"a"}}, map[string]any{"x": []string{"bad"}, "y": []string{"a"}}},
		{"field errors", gorecord.FieldErrors{"x": {"a"}}, map[string]any{"x": []string{"a"}}},
		{
			"validation error",
			fmt.Errorf("wrapped: %w", &gorecord.ValidationError{Errors: gorecord.FieldErrors{"x": {"a"}}}),
			map[string]any{"x": []string{"a"}},
		},
		{"field error", &gorecord.FieldError{Field: "x", Messages: []string{"a"}}, map[string]any{"x": []string{"a"}}},
		{"plain error", errors.New("boom"), []string{"boom"}},
		{"nil", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, gorecord.NormalizeError(tc.in)); diff != "" {
				t.Fatalf("normalized mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToFieldErrors(t *testing.T) {
	got, ok := gorecord.ToFieldErrors(gorecord.NewMessages(map[string]any{"x": "a", "nested": map[string]any{"y": []any{"b"}}}))
	if !ok {
		t.Fatalf("expected messages to convert")
	}
	if diff := cmp.Diff(gorecord.FieldErrors{"x": {"a"}, "y": {"b"}}, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	got, ok = gorecord.ToFieldErrors(gorecord.NewMessages("bad"))
	if !ok {
		t.Fatalf("expected messages to convert")
	}
	if diff := cmp.Diff(gorecord.FieldErrors{gorecord.NonFieldErrorsKey: {"bad"}}, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	if _, ok := gorecord.ToFieldErrors(errors.New("boom")); ok {
		t.Fatalf("plain errors are not validation failures")
	}
	if _, ok := gorecord.ToFieldErrors(nil); ok {
		t.Fatalf("nil is not a validation failure")
	}
}

func TestFieldErrors_MergeKeepsMessages(t *testing.T) {
	fe := gorecord.FieldErrors{"x": {"a"}}
	fe.Merge(gorecord.FieldErrors{"x": {"b"}, "y": {"c"}})
	fe.Add("y")
	if diff := cmp.Diff(gorecord.FieldErrors{"x": {"a", "b"}, "y": {"c"}}, fe); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationError_Summary(t *testing.T) {
	ve := &gorecord.ValidationError{Errors: gorecord.FieldErrors{
		"d": {"4"}, "a": {"1"}, "c": {"3"}, "b": {"2"},
	}}
	want := "validation failed: a: 1; b: 2; c: 3; ... (total 4)"
	if ve.Error() != want {
		t.Fatalf("want %q got %q", want, ve.Error())
	}
	if _, ok := gorecord.AsValidationError(errors.New("x")); ok {
		t.Fatalf("unexpected match")
	}
}
