// Package repo содержит PostgreSQL-репозитории сервиса (pgx).
//
// Хранилище — архив, а не источник истины: движок выполняет прогоны
// в памяти, а репозитории сохраняют итоговые состояния прогонов,
// записи истории шагов и расписания для выборки через API.
//
//   - RunRepo      — прогоны последовательностей (таблица runs)
//   - RecordRepo   — записи истории шагов (таблица step_records)
//   - ScheduleRepo — расписания (таблица schedules)
//
// Гарантии долговечности сознательно не даются: неудачная запись в
// архив логируется, но не проваливает сам прогон.
package repo
