// Package scheduler реализует логику планировщика прогонов.
//
// Scheduler периодически проверяет schedules с истекшим next_due_at
// и запускает новые прогоны через orchestrator.
//
// Структура:
//   - scheduler.go — основная логика Scheduler (Run, Tick, processSchedule)
//   - cron.go      — парсинг cron-выражений и вычисление следующего времени
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    ScheduleRepo: scheduleRepo,
//	    Orchestrator: orch,
//	    Logger:       logger,
//	})
//
//	// Блокируется до отмены ctx, тикает раз в секунду
//	sched.Run(ctx, time.Second)
//
// Прогоны выполняются в фоне: долгий шаг одного schedule не
// задерживает остальные. next_due_at сдвигается до начала
// выполнения, поэтому один и тот же срок не срабатывает дважды.
package scheduler
