// Package generate содержит подключаемые источники значений параметров.
//
// Генераторы заполняют Bag до запуска последовательности: движок не
// накладывает ограничений на происхождение значений (случайные,
// фиксированные, выходы предыдущих шагов).
//
// Доступные генераторы: Fixed, RandomString, RandomInt, RandomDecimal,
// RandomTime, Counter. Fill применяет набор генераторов к Bag.
package generate
