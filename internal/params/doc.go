// Package params содержит рабочий набор параметров (Bag) и типизированные
// значения (Value) для прогонов последовательностей.
//
// # Value
//
// Value — tagged union из семи типов: string, int, decimal, bool, time,
// map (вложенный Bag) и list. Тип значения известен явно, поэтому
// сериализация и сравнение детерминированы.
//
// # Bag
//
// Bag — отображение ключ → Value с сохранением порядка вставки.
// Один Bag принадлежит ровно одному прогону последовательности и
// мутируется строго последовательно: Runner вливает выходные данные
// каждого шага обратно в Bag до запуска следующего шага.
//
// Snapshot() делает глубокую копию для записей истории — снимок не
// меняется при дальнейших мутациях исходного набора.
//
// # Сериализация
//
// Bag сериализуется в обычный JSON-объект с сохранением порядка ключей.
// Время кодируется строкой RFC3339Nano и распознаётся обратно при
// чтении; decimal всегда содержит точку, чтобы не схлопнуться в int.
package params
