package gorecord_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/gorecord"
)

type Celsius float64

func TestResolve_Kinds(t *testing.T) {
	cases := []struct {
		typ      reflect.Type
		kind     gorecord.Kind
		nullable bool
	}{
		{reflect.TypeFor[int](), gorecord.KindScalar, false},
		{reflect.TypeFor[Celsius](), gorecord.KindScalar, false},
		{reflect.TypeFor[*string](), gorecord.KindScalar, true},
		{reflect.TypeFor[time.Time](), gorecord.KindScalar, false},
		{reflect.TypeFor[uuid.UUID](), gorecord.KindScalar, false},
		{reflect.TypeFor[Color](), gorecord.KindEnum, false},
		{reflect.TypeFor[*Level](), gorecord.KindEnum, true},
		{reflect.TypeFor[Point](), gorecord.KindNested, false},
		{reflect.TypeFor[*Point](), gorecord.KindNested, true},
		{reflect.TypeFor[[]Point](), gorecord.KindList, true},
		{reflect.TypeFor[map[string]int](), gorecord.KindMap, true},
	}
	for _, tc := range cases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			res, err := gorecord.Resolve(tc.typ)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if res.Kind != tc.kind || res.Nullable != tc.nullable {
				t.Fatalf("got kind=%s nullable=%t", res.Kind, res.Nullable)
			}
		})
	}
}

func TestResolve_Containers(t *testing.T) {
	res, err := gorecord.Resolve(reflect.TypeFor[map[string][]*Point]())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Elem.Kind != gorecord.KindList || res.Elem.Elem.Kind != gorecord.KindNested || res.Elem.Elem.Record != reflect.TypeFor[Point]() {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	enum, err := gorecord.Resolve(reflect.TypeFor[Level]())
	if err != nil || len(enum.Choices) != 3 {
		t.Fatalf("expected enum choices, got %+v %v", enum, err)
	}
}

func TestResolve_Errors(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeFor[map[int]string](),
		reflect.TypeFor[[]byte](),
		reflect.TypeFor[[]any](),
		reflect.TypeFor[map[string]any](),
		reflect.TypeFor[chan int](),
		reflect.TypeFor[[2]int](),
	} {
		_, err := gorecord.Resolve(typ)
		var ce *gorecord.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: expected ConfigError, got %v", typ, err)
		}
	}

	type bad struct {
		M map[int]string `json:"m"`
	}
	if _, err := gorecord.New[bad](gorecord.Options{}); err == nil {
		t.Fatalf("expected construction to fail")
	}
	// Excluding the attribute avoids resolving it.
	if _, err := gorecord.New[bad](gorecord.Options{Fields: []string{}}); err != nil {
		t.Fatalf("empty field list: %v", err)
	}
}
