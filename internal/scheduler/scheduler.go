package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Sequentia/internal/domain"
	"github.com/shaiso/Sequentia/internal/orchestrator"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/repo"
)

// Scheduler — планировщик, обрабатывающий due schedules.
type Scheduler struct {
	scheduleRepo *repo.ScheduleRepo
	orch         *orchestrator.Orchestrator
	logger       *slog.Logger
	batchSize    int

	// Прогоны, запущенные планировщиком и ещё не завершённые
	wg sync.WaitGroup
}

// Config — конфигурация Scheduler.
type Config struct {
	ScheduleRepo *repo.ScheduleRepo
	Orchestrator *orchestrator.Orchestrator
	Logger       *slog.Logger
	BatchSize    int // количество schedules за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		scheduleRepo: cfg.ScheduleRepo,
		orch:         cfg.Orchestrator,
		logger:       logger,
		batchSize:    batchSize,
	}
}

// Run запускает цикл планировщика и блокируется до отмены ctx.
// Перед возвратом дожидается завершения запущенных прогонов.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", interval, "batch_size", s.batchSize)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping, waiting for active runs")
			s.wg.Wait()
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("scheduler tick failed", "error", err)
			}
		}
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due schedules (enabled=true, next_due_at <= now)
// 2. Для каждого schedule создаёт прогон и запускает его
// 3. Обновляет next_due_at
//
// Ошибки одного schedule не блокируют обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	schedules, err := s.scheduleRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due schedules: %w", err)
	}

	if len(schedules) == 0 {
		return nil
	}

	s.logger.Debug("found due schedules", "count", len(schedules))

	var processed int
	for i := range schedules {
		sched := &schedules[i]

		if err := s.processSchedule(ctx, sched, now); err != nil {
			s.logger.Error("failed to process schedule",
				"schedule_id", sched.ID,
				"schedule_name", sched.Name,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}
		processed++
	}

	s.logger.Info("scheduler tick completed",
		"due", len(schedules),
		"processed", processed,
	)

	return nil
}

// processSchedule обрабатывает один schedule: создаёт прогон,
// сдвигает next_due_at и запускает выполнение в фоне.
//
// next_due_at обновляется до начала выполнения: долгий прогон не
// должен блокировать следующие тики, а повторный запуск того же
// времени — невозможен.
func (s *Scheduler) processSchedule(ctx context.Context, sched *domain.Schedule, now time.Time) error {
	if len(sched.StepIDs) == 0 {
		s.logger.Warn("schedule has no steps, skipping", "schedule_id", sched.ID)
		return nil
	}

	// 1. Создаём прогон в статусе PENDING
	bag, err := params.FromMap(sched.Params)
	if err != nil {
		return fmt.Errorf("build params: %w", err)
	}
	run := s.orch.PrepareRun(ctx, sched.StepIDs, bag)

	s.logger.Info("created run from schedule",
		"run_id", run.ID,
		"schedule_id", sched.ID,
		"schedule_name", sched.Name,
	)

	// 2. Вычисляем следующее время запуска
	nextDue, err := CalculateNextDue(sched, now)
	if err != nil {
		s.logger.Error("failed to calculate next due, leaving schedule as is",
			"schedule_id", sched.ID,
			"error", err,
		)
		// Schedule некорректный — лучше не трогать next_due_at
		return nil
	}

	// 3. Обновляем schedule
	sched.RecordRun(run.ID, nextDue)
	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}

	// 4. Запускаем прогон в фоне
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.orch.Execute(ctx, run)
	}()

	return nil
}
