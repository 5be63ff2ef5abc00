package gorecord_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/reoring/gorecord"
)

type Color string

const (
	Red  Color = "red"
	Blue Color = "blue"
)

type Level int

func (Level) EnumValues() []any { return []any{Level(1), Level(2), Level(3)} }

// Money is stored in cents and travels as a "12.34" string.
type Money struct{ Cents int64 }

func init() {
	gorecord.RegisterEnum(Red, Blue)
	gorecord.RegisterScalar("money",
		func(v any) (Money, error) {
			s, ok := v.(string)
			if !ok {
				return Money{}, errors.New("expected string")
			}
			var whole, frac int64
			if _, err := fmt.Sscanf(s, "%d.%02d", &whole, &frac); err != nil {
				return Money{}, err
			}
			return Money{Cents: whole*100 + frac}, nil
		},
		func(m Money) any { return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100) },
	)
}

type Event struct {
	ID     uuid.UUID     `json:"id"`
	At     time.Time     `json:"at"`
	Every  time.Duration `json:"every"`
	Note   *string       `json:"note"`
	Color  Color         `json:"color"`
	Level  Level         `json:"level"`
	Price  Money         `json:"price"`
	Amount json.Number   `json:"amount"`
	Ratio  float32       `json:"ratio"`
	Flag   bool          `json:"flag"`
	Count  uint8         `json:"count"`
}

func TestScalars_RoundTrip(t *testing.T) {
	s := gorecord.MustNew[Event](gorecord.Options{})
	id := uuid.MustParse("6f1c2b0e-8a4f-4d6e-9b1a-2c3d4e5f6a7b")
	data := map[string]any{
		"id":     id.String(),
		"at":     "2024-01-02T03:04:05Z",
		"every":  "1m30s",
		"note":   "hello",
		"color":  "blue",
		"level":  json.Number("2"),
		"price":  "12.34",
		"amount": json.Number("1.50"),
		"ratio":  0.5,
		"flag":   "true",
		"count":  json.Number("200"),
	}
	ev, err := s.Save(nil, data)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ev.ID != id || ev.Every != 90*time.Second || ev.Note == nil || *ev.Note != "hello" {
		t.Fatalf("unexpected record: %+v", ev)
	}
	if !ev.At.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", ev.At)
	}
	if ev.Color != Blue || ev.Level != 2 || ev.Price.Cents != 1234 || !ev.Flag || ev.Count != 200 {
		t.Fatalf("unexpected record: %+v", ev)
	}

	out, err := s.Represent(ev)
	if err != nil {
		t.Fatalf("represent: %v", err)
	}
	want := map[string]any{
		"id":     id.String(),
		"at":     "2024-01-02T03:04:05Z",
		"every":  "1m30s",
		"note":   "hello",
		"color":  "blue",
		"level":  2,
		"price":  "12.34",
		"amount": json.Number("1.50"),
		"ratio":  float32(0.5),
		"flag":   true,
		"count":  uint8(200),
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("represent mismatch (-want +got):\n%s", diff)
	}
}

func TestScalars_NullablePointer(t *testing.T) {
	s := gorecord.MustNew[Event](gorecord.Options{Fields: []string{"note"}})
	note := "x"
	ev, err := s.Save(&Event{Note: &note}, map[string]any{"note": nil})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ev.Note != nil {
		t.Fatalf("expected nil note")
	}
	out, _ := s.Represent(ev)
	if diff := cmp.Diff(map[string]any{"note": nil}, out); diff != "" {
		t.Fatalf("represent mismatch (-want +got):\n%s", diff)
	}
}

func TestScalars_Invalid(t *testing.T) {
	s := gorecord.MustNew[Event](gorecord.Options{})
	_, err := s.Validate(map[string]any{
		"id":    "not-a-uuid",
		"at":    "yesterday",
		"color": "green",
		"level": 9,
		"count": 300,
	})
	want := gorecord.FieldErrors{
		"id":    {"A valid UUID is required."},
		"at":    {"A valid datetime is required."},
		"color": {`"green" is not a valid choice.`},
		"level": {`"9" is not a valid choice.`},
		"count": {"A valid integer is required."},
	}
	if diff := cmp.Diff(want, mustValidationError(t, err)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestScalars_ExplicitChoices(t *testing.T) {
	s := gorecord.MustNew[User](gorecord.Options{
		ExtraKwargs: map[string]gorecord.FieldOptions{"id": {Choices: []any{"1", 2}}},
	})
	fs := s.Fields()[0]
	if diff := cmp.Diff([]any{1, 2}, fs.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Save(nil, map[string]any{"id": 2}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.Save(nil, map[string]any{"id": 3}); err == nil {
		t.Fatalf("expected invalid choice")
	}

	_, err := gorecord.New[User](gorecord.Options{
		ExtraKwargs: map[string]gorecord.FieldOptions{"id": {Choices: []any{"one"}}},
	})
	if err == nil || !strings.Contains(err.Error(), "choice") {
		t.Fatalf("expected choice config error, got %v", err)
	}
}

func TestScalars_EnumKinds(t *testing.T) {
	s := gorecord.MustNew[Event](gorecord.Options{Fields: []string{"color", "level", "id"}})
	kinds := map[string]gorecord.Kind{}
	for _, f := range s.Fields() {
		kinds[f.Name] = f.Kind
	}
	want := map[string]gorecord.Kind{"color": gorecord.KindEnum, "level": gorecord.KindEnum, "id": gorecord.KindScalar}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}
