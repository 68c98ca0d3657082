// Package orchestrator управляет жизненным циклом прогонов.
//
// Orchestrator отвечает за:
//   - Запуск последовательности шагов через engine.Runner
//   - Переводы статусов прогона (PENDING → RUNNING → финальный)
//   - Сбор записей истории прогона
//   - Архивирование прогона и записей в PostgreSQL
//   - Публикацию событий run.finished / step.completed
//   - Метрики выполнения и отмену прогона в полёте
//
// Orchestrator — это "мозг" сервиса, который связывает ядро
// выполнения с хранилищем, брокером и телеметрией.
package orchestrator
