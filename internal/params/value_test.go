package params

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// --- Constructors and accessors ---

func TestValue_Kinds(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"string", String("hello"), KindString},
		{"int", Int(42), KindInt},
		{"decimal", Decimal(3.14), KindDecimal},
		{"bool", Bool(true), KindBool},
		{"time", Time(time.Now()), KindTime},
		{"map", Map(NewBag()), KindMap},
		{"list", List(Int(1), Int(2)), KindList},
	}

	for _, tc := range cases {
		if tc.v.Kind() != tc.kind {
			t.Errorf("%s: expected kind %s, got %s", tc.name, tc.kind, tc.v.Kind())
		}
	}
}

func TestValue_AsString(t *testing.T) {
	v := String("hello")

	s, ok := v.AsString()
	if !ok || s != "hello" {
		t.Errorf("expected hello, got %q (ok=%v)", s, ok)
	}

	// Неверный тип
	if _, ok := Int(1).AsString(); ok {
		t.Error("AsString on int should return false")
	}
}

func TestValue_AsDecimal_AcceptsInt(t *testing.T) {
	// Целое читается как decimal без потери
	f, ok := Int(7).AsDecimal()
	if !ok || f != 7.0 {
		t.Errorf("expected 7.0, got %v (ok=%v)", f, ok)
	}

	// Но decimal не читается как int
	if _, ok := Decimal(7.5).AsInt(); ok {
		t.Error("AsInt on decimal should return false")
	}
}

func TestValue_Equal(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"same strings", String("a"), String("a"), true},
		{"different strings", String("a"), String("b"), false},
		{"same ints", Int(5), Int(5), true},
		{"int vs decimal", Int(5), Decimal(5.0), false},
		{"same times", Time(now), Time(now), true},
		{"same bools", Bool(true), Bool(true), true},
		{"same lists", List(Int(1), String("x")), List(Int(1), String("x")), true},
		{"different list length", List(Int(1)), List(Int(1), Int(2)), false},
	}

	for _, tc := range cases {
		if got := tc.a.Equal(tc.b); got != tc.equal {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.equal, got)
		}
	}
}

func TestValue_Clone_MapIsolation(t *testing.T) {
	inner := NewBag()
	inner.SetString("key", "original")

	v := Map(inner)
	clone := v.Clone()

	// Меняем оригинал
	inner.SetString("key", "changed")

	m, _ := clone.AsMap()
	s, _ := m.GetString("key")
	if s != "original" {
		t.Errorf("clone should not see changes, got %q", s)
	}
}

// --- JSON ---

func TestValue_MarshalJSON_DecimalKeepsPoint(t *testing.T) {
	// Decimal с целым значением сериализуется с точкой,
	// иначе при чтении он стал бы Int
	data, err := json.Marshal(Decimal(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(data), ".") {
		t.Errorf("decimal JSON should contain a point, got %s", data)
	}
}

func TestValue_MarshalJSON_Time(t *testing.T) {
	ts := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

	data, err := json.Marshal(Time(ts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(data) != `"2025-06-15T12:30:00Z"` {
		t.Errorf("unexpected time JSON: %s", data)
	}
}

// --- FromAny ---

func TestFromAny_Basic(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		kind Kind
	}{
		{"string", "hello", KindString},
		{"int", 42, KindInt},
		{"int64", int64(42), KindInt},
		{"whole float", 5.0, KindInt},
		{"fractional float", 5.5, KindDecimal},
		{"bool", true, KindBool},
		{"time", time.Now(), KindTime},
		{"map", map[string]any{"a": 1}, KindMap},
		{"slice", []any{1, 2}, KindList},
	}

	for _, tc := range cases {
		v, err := FromAny(tc.raw)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if v.Kind() != tc.kind {
			t.Errorf("%s: expected kind %s, got %s", tc.name, tc.kind, v.Kind())
		}
	}
}

func TestFromAny_RFC3339String(t *testing.T) {
	v, err := FromAny("2025-06-15T12:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Kind() != KindTime {
		t.Fatalf("RFC3339 string should become time, got %s", v.Kind())
	}

	ts, _ := v.AsTime()
	if ts.Year() != 2025 || ts.Month() != time.June {
		t.Errorf("unexpected parsed time: %v", ts)
	}
}

func TestFromAny_PlainStringStaysString(t *testing.T) {
	v, err := FromAny("not a date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindString {
		t.Errorf("expected string, got %s", v.Kind())
	}
}

func TestFromAny_JSONNumber(t *testing.T) {
	vInt, err := FromAny(json.Number("42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vInt.Kind() != KindInt {
		t.Errorf("expected int, got %s", vInt.Kind())
	}

	vDec, err := FromAny(json.Number("42.5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vDec.Kind() != KindDecimal {
		t.Errorf("expected decimal, got %s", vDec.Kind())
	}
}

func TestFromAny_Unsupported(t *testing.T) {
	if _, err := FromAny(struct{}{}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestValue_Text(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{String("abc"), "abc"},
		{Int(42), "42"},
		{Bool(true), "true"},
	}

	for _, tc := range cases {
		if got := tc.v.Text(); got != tc.want {
			t.Errorf("expected %q, got %q", tc.want, got)
		}
	}
}
