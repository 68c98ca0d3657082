package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Bag — рабочий набор параметров последовательности.
//
// Отображение строкового ключа в типизированное Value с сохранением
// порядка вставки. Bag передаётся по ссылке через все шаги одного
// прогона: выходные данные шага вливаются в тот же Bag до запуска
// следующего шага, поэтому поздние шаги видят результаты ранних.
//
// Bag принадлежит ровно одному прогону и НЕ потокобезопасен:
// внутри прогона запись строго последовательная, конкурирующих
// писателей нет.
type Bag struct {
	keys   []string
	values map[string]Value
}

// NewBag создаёт пустой набор параметров.
func NewBag() *Bag {
	return &Bag{
		values: make(map[string]Value),
	}
}

// FromMap создаёт Bag из map[string]any (например, из декодированного
// JSON запроса). Ключи вставляются в отсортированном порядке.
func FromMap(m map[string]any) (*Bag, error) {
	bag := NewBag()
	for _, key := range sortedKeys(m) {
		v, err := FromAny(m[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		bag.Set(key, v)
	}
	return bag, nil
}

// Set записывает значение под ключом.
// Новый ключ добавляется в конец, существующий сохраняет позицию.
func (b *Bag) Set(key string, v Value) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = v
}

// SetString записывает строку.
func (b *Bag) SetString(key, s string) {
	b.Set(key, String(s))
}

// SetInt записывает целое.
func (b *Bag) SetInt(key string, n int64) {
	b.Set(key, Int(n))
}

// SetDecimal записывает число с плавающей точкой.
func (b *Bag) SetDecimal(key string, f float64) {
	b.Set(key, Decimal(f))
}

// SetBool записывает булево значение.
func (b *Bag) SetBool(key string, v bool) {
	b.Set(key, Bool(v))
}

// SetTime записывает момент времени.
func (b *Bag) SetTime(key string, t time.Time) {
	b.Set(key, Time(t))
}

// Get возвращает значение по ключу.
func (b *Bag) Get(key string) (Value, bool) {
	v, ok := b.values[key]
	return v, ok
}

// GetString возвращает строку по ключу.
func (b *Bag) GetString(key string) (string, bool) {
	v, ok := b.values[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetInt возвращает целое по ключу.
func (b *Bag) GetInt(key string) (int64, bool) {
	v, ok := b.values[key]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// GetDecimal возвращает float64 по ключу (для int и decimal).
func (b *Bag) GetDecimal(key string) (float64, bool) {
	v, ok := b.values[key]
	if !ok {
		return 0, false
	}
	return v.AsDecimal()
}

// GetBool возвращает bool по ключу.
func (b *Bag) GetBool(key string) (bool, bool) {
	v, ok := b.values[key]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// Has проверяет наличие ключа.
func (b *Bag) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Delete удаляет ключ.
func (b *Bag) Delete(key string) {
	if _, ok := b.values[key]; !ok {
		return
	}
	delete(b.values, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
}

// Keys возвращает ключи в порядке вставки.
func (b *Bag) Keys() []string {
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len возвращает количество параметров.
func (b *Bag) Len() int {
	return len(b.values)
}

// Merge вливает параметры other в b.
// При совпадении ключей значение из other перезаписывает существующее.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		b.Set(key, other.values[key])
	}
}

// Snapshot возвращает глубокую копию набора.
// Используется для снимков в записях истории: запись не должна
// меняться при дальнейших мутациях исходного Bag.
func (b *Bag) Snapshot() *Bag {
	if b == nil {
		return NewBag()
	}
	clone := &Bag{
		keys:   make([]string, len(b.keys)),
		values: make(map[string]Value, len(b.values)),
	}
	copy(clone.keys, b.keys)
	for key, v := range b.values {
		clone.values[key] = v.Clone()
	}
	return clone
}

// Equal сравнивает два набора по содержимому (порядок ключей не важен).
func (b *Bag) Equal(other *Bag) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.values) != len(other.values) {
		return false
	}
	for key, v := range b.values {
		ov, ok := other.values[key]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// ToMap возвращает содержимое как map[string]any (для шаблонов).
func (b *Bag) ToMap() map[string]any {
	if b == nil {
		return map[string]any{}
	}
	m := make(map[string]any, len(b.values))
	for key, v := range b.values {
		m[key] = v.Interface()
	}
	return m
}

// MarshalJSON сериализует Bag как JSON-объект с сохранением порядка ключей.
func (b *Bag) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := b.values[key].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON читает Bag из JSON-объекта, сохраняя порядок ключей.
func (b *Bag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object", ErrInvalidValue)
	}

	b.keys = nil
	b.values = make(map[string]Value)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: expected object key", ErrInvalidValue)
		}

		v, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		b.Set(key, v)
	}

	// Закрывающая '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// decodeValue читает одно значение из потока токенов.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			nested := NewBag()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("%w: expected object key", ErrInvalidValue)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				nested.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Map(nested), nil
		case '[':
			var items []Value
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return List(items...), nil
		default:
			return Value{}, fmt.Errorf("%w: unexpected delimiter %q", ErrInvalidValue, t)
		}
	default:
		return FromAny(tok)
	}
}

// sortedKeys возвращает отсортированные ключи map.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
