// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (orchestrator, репозитории, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - step_handler.go     — обработчики для /steps
//   - run_handler.go      — обработчики для /runs
//   - history_handler.go  — обработчики для /history
//   - schedule_handler.go — обработчики для /schedules
//
// API предоставляет REST endpoints для запуска последовательностей,
// просмотра истории и управления расписаниями.
package api
