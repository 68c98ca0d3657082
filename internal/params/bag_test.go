package params

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestBag_SetGet(t *testing.T) {
	bag := NewBag()
	bag.SetString("name", "voltage_check")
	bag.SetInt("attempts", 3)
	bag.SetDecimal("threshold", 1.05)
	bag.SetBool("enabled", true)

	if s, ok := bag.GetString("name"); !ok || s != "voltage_check" {
		t.Errorf("expected voltage_check, got %q", s)
	}
	if n, ok := bag.GetInt("attempts"); !ok || n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
	if f, ok := bag.GetDecimal("threshold"); !ok || f != 1.05 {
		t.Errorf("expected 1.05, got %v", f)
	}
	if b, ok := bag.GetBool("enabled"); !ok || !b {
		t.Error("expected enabled=true")
	}

	// Отсутствующий ключ
	if _, ok := bag.Get("missing"); ok {
		t.Error("missing key should return false")
	}
}

func TestBag_KeysPreserveInsertionOrder(t *testing.T) {
	bag := NewBag()
	bag.SetString("c", "1")
	bag.SetString("a", "2")
	bag.SetString("b", "3")

	want := []string{"c", "a", "b"}
	if got := bag.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Перезапись не меняет позицию ключа
	bag.SetString("c", "updated")
	if got := bag.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("after overwrite: expected %v, got %v", want, got)
	}
}

func TestBag_Delete(t *testing.T) {
	bag := NewBag()
	bag.SetString("a", "1")
	bag.SetString("b", "2")

	bag.Delete("a")

	if bag.Has("a") {
		t.Error("a should be deleted")
	}
	if bag.Len() != 1 {
		t.Errorf("expected len 1, got %d", bag.Len())
	}
	if got := bag.Keys(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("expected [b], got %v", got)
	}
}

func TestBag_Merge_Overwrites(t *testing.T) {
	base := NewBag()
	base.SetString("host", "localhost")
	base.SetInt("port", 8080)

	overlay := NewBag()
	overlay.SetInt("port", 9090)
	overlay.SetString("proto", "http")

	base.Merge(overlay)

	if n, _ := base.GetInt("port"); n != 9090 {
		t.Errorf("port should be overwritten, got %d", n)
	}
	if !base.Has("proto") {
		t.Error("proto should be merged in")
	}
	if !base.Has("host") {
		t.Error("host should survive merge")
	}
}

func TestBag_Snapshot_Isolation(t *testing.T) {
	nested := NewBag()
	nested.SetString("inner", "original")

	bag := NewBag()
	bag.SetString("top", "value")
	bag.Set("nested", Map(nested))

	snap := bag.Snapshot()

	// Меняем оригинал после снимка
	bag.SetString("top", "changed")
	nested.SetString("inner", "changed")

	if s, _ := snap.GetString("top"); s != "value" {
		t.Errorf("snapshot top should be value, got %q", s)
	}

	nv, _ := snap.Get("nested")
	nb, _ := nv.AsMap()
	if s, _ := nb.GetString("inner"); s != "original" {
		t.Errorf("snapshot nested should be original, got %q", s)
	}
}

func TestBag_Equal(t *testing.T) {
	a := NewBag()
	a.SetString("k", "v")
	a.SetInt("n", 1)

	b := NewBag()
	b.SetInt("n", 1)
	b.SetString("k", "v")

	// Порядок вставки не влияет на равенство
	if !a.Equal(b) {
		t.Error("bags with same content should be equal")
	}

	b.SetInt("n", 2)
	if a.Equal(b) {
		t.Error("bags with different values should not be equal")
	}
}

func TestFromMap(t *testing.T) {
	bag, err := FromMap(map[string]any{
		"name":  "test",
		"count": 5,
		"ratio": 0.5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bag.Len() != 3 {
		t.Errorf("expected 3 keys, got %d", bag.Len())
	}

	// Ключи отсортированы для детерминизма
	want := []string{"count", "name", "ratio"}
	if got := bag.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFromMap_Nil(t *testing.T) {
	bag, err := FromMap(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bag.Len() != 0 {
		t.Errorf("expected empty bag, got %d keys", bag.Len())
	}
}

// --- JSON round-trip ---

func TestBag_JSONRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	nested := NewBag()
	nested.SetString("inner", "value")

	original := NewBag()
	original.SetString("name", "measure")
	original.SetInt("count", 10)
	original.SetDecimal("level", 2.5)
	original.SetDecimal("whole", 4) // decimal с целым значением
	original.SetBool("flag", false)
	original.SetTime("at", ts)
	original.Set("nested", Map(nested))
	original.Set("items", List(Int(1), String("two")))

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := NewBag()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !original.Equal(restored) {
		t.Errorf("round-trip lost data:\noriginal: %s\nrestored: %s", data, mustJSON(t, restored))
	}

	// Типы сохраняются: whole остаётся decimal, а не int
	v, _ := restored.Get("whole")
	if v.Kind() != KindDecimal {
		t.Errorf("whole should survive as decimal, got %s", v.Kind())
	}

	// Время восстанавливается как время
	at, _ := restored.Get("at")
	if at.Kind() != KindTime {
		t.Errorf("at should survive as time, got %s", at.Kind())
	}

	// Порядок ключей сохраняется
	if !reflect.DeepEqual(original.Keys(), restored.Keys()) {
		t.Errorf("key order lost: %v vs %v", original.Keys(), restored.Keys())
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}
