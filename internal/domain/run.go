package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Sequentia/internal/params"
)

// SequenceRun — один прогон последовательности шагов.
//
// Создаётся когда:
// - Пользователь запускает последовательность вручную (через API/CLI)
// - Scheduler создаёт прогон по расписанию
//
// Прогон владеет своим Bag эксклюзивно: параметры не разделяются
// между конкурентными прогонами.
type SequenceRun struct {
	// ID — уникальный идентификатор прогона.
	ID uuid.UUID `json:"id"`

	// StepIDs — упорядоченный список ID шагов.
	StepIDs []string `json:"step_ids"`

	// Status — текущий статус прогона.
	Status RunStatus `json:"status"`

	// Params — снимок входных параметров, переданных при запуске.
	Params *params.Bag `json:"params,omitempty"`

	// StepsRun — количество фактически выполненных шагов.
	// Меньше len(StepIDs), если прогон прервался досрочно.
	StepsRun int `json:"steps_run"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — сообщение первого прервавшего прогон шага.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания прогона.
	CreatedAt time.Time `json:"created_at"`
}

// NewSequenceRun создаёт прогон в статусе PENDING.
func NewSequenceRun(stepIDs []string, bag *params.Bag) *SequenceRun {
	return &SequenceRun{
		ID:        uuid.New(),
		StepIDs:   stepIDs,
		Status:    RunStatusPending,
		Params:    bag,
		CreatedAt: time.Now(),
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если прогон ещё не завершён.
func (r *SequenceRun) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если прогон завершён.
func (r *SequenceRun) IsFinished() bool {
	return r.Status.IsTerminal()
}

// MarkRunning переводит прогон в статус RUNNING.
func (r *SequenceRun) MarkRunning() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
}

// MarkSucceeded переводит прогон в статус SUCCEEDED.
func (r *SequenceRun) MarkSucceeded(stepsRun int) {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.StepsRun = stepsRun
	r.FinishedAt = &now
}

// MarkFailed переводит прогон в статус FAILED.
func (r *SequenceRun) MarkFailed(stepsRun int, err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.StepsRun = stepsRun
	r.FinishedAt = &now
	r.Error = err
}

// MarkCancelled переводит прогон в статус CANCELLED.
func (r *SequenceRun) MarkCancelled() {
	now := time.Now()
	r.Status = RunStatusCancelled
	r.FinishedAt = &now
}
