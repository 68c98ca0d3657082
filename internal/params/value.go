package params

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind — тип значения в параметрах.
type Kind int

// Поддерживаемые типы значений.
const (
	// KindString — строка.
	KindString Kind = iota

	// KindInt — целое число.
	KindInt

	// KindDecimal — число с плавающей точкой.
	KindDecimal

	// KindBool — булево значение.
	KindBool

	// KindTime — момент времени.
	KindTime

	// KindMap — вложенный набор параметров.
	KindMap

	// KindList — упорядоченный список значений.
	KindList
)

// String возвращает имя типа.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value — типизированное значение параметра.
//
// Вместо открытого any используется tagged union: тип значения
// известен явно, что делает сериализацию и сравнение предсказуемыми.
//
// Значения создаются через конструкторы:
//
//	params.String("abc")
//	params.Int(42)
//	params.Decimal(1.5)
//	params.Bool(true)
//	params.Time(time.Now())
//	params.Map(bag)
//	params.List(params.Int(1), params.Int(2))
type Value struct {
	kind Kind
	str  string
	num  int64
	dec  float64
	b    bool
	t    time.Time
	m    *Bag
	list []Value
}

// String создаёт строковое значение.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int создаёт целочисленное значение.
func Int(n int64) Value {
	return Value{kind: KindInt, num: n}
}

// Decimal создаёт значение с плавающей точкой.
func Decimal(f float64) Value {
	return Value{kind: KindDecimal, dec: f}
}

// Bool создаёт булево значение.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Time создаёт значение-момент времени.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Map создаёт значение-вложенный набор параметров.
func Map(b *Bag) Value {
	if b == nil {
		b = NewBag()
	}
	return Value{kind: KindMap, m: b}
}

// List создаёт значение-список.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// Kind возвращает тип значения.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString возвращает строку, если значение строковое.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt возвращает целое, если значение целочисленное.
func (v Value) AsInt() (int64, bool) {
	return v.num, v.kind == KindInt
}

// AsDecimal возвращает float64 для числовых значений (int или decimal).
func (v Value) AsDecimal() (float64, bool) {
	switch v.kind {
	case KindDecimal:
		return v.dec, true
	case KindInt:
		return float64(v.num), true
	default:
		return 0, false
	}
}

// AsBool возвращает bool, если значение булево.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsTime возвращает время, если значение — момент времени.
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// AsMap возвращает вложенный набор, если значение — map.
func (v Value) AsMap() (*Bag, bool) {
	return v.m, v.kind == KindMap
}

// AsList возвращает список, если значение — list.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Interface возвращает значение как any (для шаблонов и JSON).
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindDecimal:
		return v.dec
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindMap:
		return v.m.ToMap()
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	default:
		return nil
	}
}

// Text возвращает человекочитаемое представление значения.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindDecimal:
		return strconv.FormatFloat(v.dec, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindMap:
		b, _ := json.Marshal(v.m)
		return string(b)
	case KindList:
		b, _ := v.MarshalJSON()
		return string(b)
	default:
		return ""
	}
}

// Equal сравнивает два значения по типу и содержимому.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindDecimal:
		return v.dec == other.dec
	case KindBool:
		return v.b == other.b
	case KindTime:
		return v.t.Equal(other.t)
	case KindMap:
		return v.m.Equal(other.m)
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone возвращает глубокую копию значения.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		return Value{kind: KindMap, m: v.m.Snapshot()}
	case KindList:
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, list: items}
	default:
		// Скалярные значения копируются по значению
		return v
	}
}

// MarshalJSON сериализует значение в JSON.
//
// Время кодируется как RFC3339Nano строка. Decimal всегда содержит
// точку или экспоненту, чтобы при обратном чтении не превратиться
// в целое (2.0 кодируется как "2.0", а не "2").
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return []byte(strconv.FormatInt(v.num, 10)), nil
	case KindDecimal:
		s := strconv.FormatFloat(v.dec, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	case KindMap:
		return v.m.MarshalJSON()
	case KindList:
		parts := make([]json.RawMessage, len(v.list))
		for i, item := range v.list {
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			parts[i] = b
		}
		return json.Marshal(parts)
	default:
		return []byte("null"), nil
	}
}

// FromAny преобразует произвольное Go-значение в Value.
//
// Используется при приёме JSON из внешних слоёв (API, конфигурация):
//   - json.Number и float64 без дробной части становятся KindInt
//   - строки в формате RFC3339 становятся KindTime
//   - map и slice преобразуются рекурсивно
func FromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return String(""), nil
	case Value:
		return x, nil
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return Time(t), nil
		}
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return fromFloat(float64(x)), nil
	case float64:
		return fromFloat(x), nil
	case time.Time:
		return Time(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q", ErrInvalidValue, x.String())
		}
		return Decimal(f), nil
	case map[string]any:
		return mapFromAny(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return List(items...), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, raw)
	}
}

// fromFloat различает целые и дробные float64.
func fromFloat(f float64) Value {
	if f == float64(int64(f)) {
		return Int(int64(f))
	}
	return Decimal(f)
}

// mapFromAny преобразует map[string]any во вложенный Bag.
// Порядок ключей map в Go недетерминирован, поэтому ключи сортируются
// при вставке для воспроизводимости.
func mapFromAny(m map[string]any) (Value, error) {
	bag := NewBag()
	for _, key := range sortedKeys(m) {
		v, err := FromAny(m[key])
		if err != nil {
			return Value{}, fmt.Errorf("key %q: %w", key, err)
		}
		bag.Set(key, v)
	}
	return Map(bag), nil
}
