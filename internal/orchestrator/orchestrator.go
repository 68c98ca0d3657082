package orchestrator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shaiso/Sequentia/internal/domain"
	"github.com/shaiso/Sequentia/internal/engine"
	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/notify"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/repo"
	"github.com/shaiso/Sequentia/internal/step"
	"github.com/shaiso/Sequentia/internal/telemetry"
)

// Orchestrator координирует жизненный цикл прогонов.
//
// Вокруг ядра выполнения (реестр, Executor, Runner, журнал) он
// добавляет то, что нужно сервису:
//   - статусы прогона (PENDING → RUNNING → финальный)
//   - архивирование прогонов и записей в PostgreSQL
//   - публикацию событий после завершения прогона
//   - метрики выполнения
//   - отмену прогона в полёте
//
// Репозитории и publisher необязательны (nil): движок работает и
// без хранилища/брокера, архивирование и события тогда пропускаются.
type Orchestrator struct {
	registry *step.Registry
	log      *history.Log
	logger   *slog.Logger

	// Необязательные коллабораторы
	runRepo    *repo.RunRepo
	recordRepo *repo.RecordRepo
	publisher  *notify.Publisher

	// Активные прогоны (runID → cancel)
	mu     sync.Mutex
	active map[uuid.UUID]context.CancelFunc
}

// Config — зависимости Orchestrator'а.
type Config struct {
	Registry   *step.Registry
	Log        *history.Log
	RunRepo    *repo.RunRepo
	RecordRepo *repo.RecordRepo
	Publisher  *notify.Publisher
	Logger     *slog.Logger
}

// New создаёт Orchestrator.
func New(cfg Config) *Orchestrator {
	log := cfg.Log
	if log == nil {
		log = history.NewLog()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry:   cfg.Registry,
		log:        log,
		logger:     logger,
		runRepo:    cfg.RunRepo,
		recordRepo: cfg.RecordRepo,
		publisher:  cfg.Publisher,
		active:     make(map[uuid.UUID]context.CancelFunc),
	}
}

// Registry возвращает реестр шагов.
func (o *Orchestrator) Registry() *step.Registry {
	return o.registry
}

// History возвращает общий журнал истории.
func (o *Orchestrator) History() *history.Log {
	return o.log
}

// RunResult — итог одного прогона.
type RunResult struct {
	// Run — финальное состояние прогона.
	Run *domain.SequenceRun

	// Result — результаты шагов в порядке выполнения.
	Result engine.SequenceResult

	// Records — записи истории этого прогона.
	Records []*history.Record
}

// ExecuteRun выполняет последовательность от начала до конца.
//
// Блокируется до завершения прогона. Ошибки шагов не возвращаются
// как error: они видны в Result и Records.
func (o *Orchestrator) ExecuteRun(ctx context.Context, stepIDs []string, bag *params.Bag) *RunResult {
	run := o.PrepareRun(ctx, stepIDs, bag)
	return o.Execute(ctx, run)
}

// PrepareRun создаёт прогон в статусе PENDING и архивирует его.
// Прогон владеет снимком входных параметров: исходный bag после
// этого можно изменять без влияния на прогон.
func (o *Orchestrator) PrepareRun(ctx context.Context, stepIDs []string, bag *params.Bag) *domain.SequenceRun {
	if bag == nil {
		bag = params.NewBag()
	}
	run := domain.NewSequenceRun(stepIDs, bag.Snapshot())
	o.archiveCreate(ctx, run)
	return run
}

// Execute выполняет подготовленный прогон до завершения.
func (o *Orchestrator) Execute(ctx context.Context, run *domain.SequenceRun) *RunResult {
	bag := run.Params.Snapshot()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	o.active[run.ID] = cancel
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.active, run.ID)
		o.mu.Unlock()
	}()

	run.MarkRunning()
	o.archiveUpdate(ctx, run)
	o.logger.Info("run started", "run_id", run.ID, "steps", len(run.StepIDs))

	// Записи прогона собираются отдельно, но каждая запись попадает
	// в общий журнал в момент завершения шага
	runLog := history.NewLog()
	executor := engine.NewExecutor(o.registry, history.MultiAppender(o.log, runLog))
	result := engine.NewRunner(executor).RunSequence(runCtx, run.StepIDs, bag)
	records := runLog.All()

	o.finalize(runCtx, run, result)

	for _, rec := range records {
		telemetry.ObserveStep(rec.StepID, rec.Success, rec.Duration)
	}
	telemetry.ObserveRun(string(run.Status), run.Duration())

	o.archiveUpdate(ctx, run)
	o.archiveRecords(ctx, run.ID, records)
	o.publish(run, records)

	o.logger.Info("run finished",
		"run_id", run.ID,
		"status", run.Status,
		"steps_run", run.StepsRun,
		"duration", run.Duration(),
	)

	return &RunResult{Run: run, Result: result, Records: records}
}

// CancelRun отменяет прогон в полёте.
// Отмена кооперативная: действие текущего шага получает отменённый
// контекст, возвращает неуспех и прогон останавливается.
func (o *Orchestrator) CancelRun(id uuid.UUID) error {
	o.mu.Lock()
	cancel, ok := o.active[id]
	o.mu.Unlock()

	if !ok {
		return ErrRunNotActive
	}
	cancel()
	return nil
}

// ActiveRuns возвращает ID прогонов в полёте.
func (o *Orchestrator) ActiveRuns() []uuid.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(o.active))
	for id := range o.active {
		ids = append(ids, id)
	}
	return ids
}

// finalize переводит прогон в финальный статус по результату.
func (o *Orchestrator) finalize(runCtx context.Context, run *domain.SequenceRun, result engine.SequenceResult) {
	stepsRun := len(result)

	if runCtx.Err() != nil && result.Aborted() {
		run.MarkCancelled()
		run.StepsRun = stepsRun
		return
	}

	if result.OK() {
		run.MarkSucceeded(stepsRun)
		return
	}

	_, failure := result.FirstFailure()
	run.MarkFailed(stepsRun, failure.Message)
}

// archiveCreate сохраняет новый прогон в архив.
// Сбой архива не проваливает прогон — только предупреждение в логе.
func (o *Orchestrator) archiveCreate(ctx context.Context, run *domain.SequenceRun) {
	if o.runRepo == nil {
		return
	}
	if err := o.runRepo.Create(ctx, run); err != nil {
		o.logger.Warn("archive run failed", "run_id", run.ID, "error", err)
	}
}

// archiveUpdate сохраняет состояние прогона в архив.
func (o *Orchestrator) archiveUpdate(ctx context.Context, run *domain.SequenceRun) {
	if o.runRepo == nil {
		return
	}
	if err := o.runRepo.Update(ctx, run); err != nil {
		o.logger.Warn("archive run update failed", "run_id", run.ID, "error", err)
	}
}

// archiveRecords сохраняет записи истории прогона в архив.
func (o *Orchestrator) archiveRecords(ctx context.Context, runID uuid.UUID, records []*history.Record) {
	if o.recordRepo == nil || len(records) == 0 {
		return
	}
	if err := o.recordRepo.InsertBatch(ctx, runID, records); err != nil {
		o.logger.Warn("archive records failed", "run_id", runID, "error", err)
	}
}

// publish рассылает события о завершённом прогоне.
// Вызывается после получения результата: ядро событий не порождает.
func (o *Orchestrator) publish(run *domain.SequenceRun, records []*history.Record) {
	if o.publisher == nil {
		return
	}

	// События публикуются с собственным контекстом: отмена прогона
	// не должна терять уведомление о его завершении
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	for _, rec := range records {
		if err := o.publisher.PublishStepCompleted(ctx, run.ID, rec); err != nil {
			o.logger.Warn("publish step event failed", "run_id", run.ID, "step_id", rec.StepID, "error", err)
		}
	}
	if err := o.publisher.PublishRunFinished(ctx, run); err != nil {
		o.logger.Warn("publish run event failed", "run_id", run.ID, "error", err)
	}
}
