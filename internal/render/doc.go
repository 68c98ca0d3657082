// Package render содержит рендеринг Go templates над параметрами
// прогона: {{ .Params.x }}, {{ .Env.X }} плюс набор строковых и
// JSON-функций. Используется шагом transform для вычисления новых
// значений из уже накопленных параметров.
package render
