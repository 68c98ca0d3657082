// Package compare содержит помощники сравнения значений для проверок
// в шагах: числовое сравнение с допуском, строки, время и
// типизированные значения параметров.
package compare
