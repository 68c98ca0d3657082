package generate

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shaiso/Sequentia/internal/params"
)

// Generator — подключаемый источник значений параметров.
//
// Движок не накладывает ограничений на то, как были получены
// значения Bag: генераторы — внешний поставщик, который заполняет
// параметры до запуска последовательности.
type Generator interface {
	// Value возвращает очередное значение.
	Value() params.Value
}

// Fill заполняет bag значениями из генераторов.
// Существующие ключи перезаписываются.
func Fill(bag *params.Bag, generators map[string]Generator) {
	for _, key := range sortedKeys(generators) {
		bag.Set(key, generators[key].Value())
	}
}

// Fixed — генератор фиксированного значения.
type Fixed struct {
	v params.Value
}

// NewFixed создаёт генератор, всегда возвращающий v.
func NewFixed(v params.Value) *Fixed {
	return &Fixed{v: v}
}

// Value возвращает фиксированное значение.
func (g *Fixed) Value() params.Value {
	return g.v
}

// alphabet — символы для случайных строк.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString — генератор случайных строк фиксированной длины.
type RandomString struct {
	mu     sync.Mutex
	rng    *rand.Rand
	length int
}

// NewRandomString создаёт генератор строк длины length.
func NewRandomString(length int) *RandomString {
	if length <= 0 {
		length = 8
	}
	return &RandomString{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		length: length,
	}
}

// Value возвращает случайную строку.
func (g *RandomString) Value() params.Value {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, g.length)
	for i := range buf {
		buf[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return params.String(string(buf))
}

// RandomInt — генератор случайных целых в диапазоне [min, max].
type RandomInt struct {
	mu       sync.Mutex
	rng      *rand.Rand
	min, max int64
}

// NewRandomInt создаёт генератор целых в [min, max].
func NewRandomInt(min, max int64) *RandomInt {
	if max < min {
		min, max = max, min
	}
	return &RandomInt{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		min: min,
		max: max,
	}
}

// Value возвращает случайное целое.
func (g *RandomInt) Value() params.Value {
	g.mu.Lock()
	defer g.mu.Unlock()
	return params.Int(g.min + g.rng.Int63n(g.max-g.min+1))
}

// RandomDecimal — генератор случайных чисел с плавающей точкой
// в диапазоне [min, max).
type RandomDecimal struct {
	mu       sync.Mutex
	rng      *rand.Rand
	min, max float64
}

// NewRandomDecimal создаёт генератор чисел в [min, max).
func NewRandomDecimal(min, max float64) *RandomDecimal {
	if max < min {
		min, max = max, min
	}
	return &RandomDecimal{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		min: min,
		max: max,
	}
}

// Value возвращает случайное число.
func (g *RandomDecimal) Value() params.Value {
	g.mu.Lock()
	defer g.mu.Unlock()
	return params.Decimal(g.min + g.rng.Float64()*(g.max-g.min))
}

// RandomTime — генератор случайных моментов времени в интервале
// [from, to).
type RandomTime struct {
	mu       sync.Mutex
	rng      *rand.Rand
	from, to time.Time
}

// NewRandomTime создаёт генератор времени в [from, to).
func NewRandomTime(from, to time.Time) *RandomTime {
	if to.Before(from) {
		from, to = to, from
	}
	return &RandomTime{
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		from: from,
		to:   to,
	}
}

// Value возвращает случайный момент времени.
func (g *RandomTime) Value() params.Value {
	g.mu.Lock()
	defer g.mu.Unlock()

	span := g.to.Sub(g.from)
	if span <= 0 {
		return params.Time(g.from)
	}
	return params.Time(g.from.Add(time.Duration(g.rng.Int63n(int64(span)))))
}

// Counter — генератор монотонно растущих целых.
// Потокобезопасен без мьютекса.
type Counter struct {
	next atomic.Int64
}

// NewCounter создаёт счётчик, начинающийся со start.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.next.Store(start)
	return c
}

// Value возвращает очередное значение счётчика.
func (c *Counter) Value() params.Value {
	return params.Int(c.next.Add(1) - 1)
}

// sortedKeys возвращает отсортированные ключи map генераторов.
// Порядок вставки в Bag должен быть воспроизводимым.
func sortedKeys(m map[string]Generator) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
