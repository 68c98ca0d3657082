package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

// Record — одна запись в журнале истории выполнения.
//
// Создаётся Executor'ом перед вызовом действия шага, финализируется
// после его завершения и добавляется в журнал ровно один раз.
// После добавления запись не изменяется (append-only).
type Record struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// StepID — ID выполненного шага.
	StepID string `json:"step_id"`

	// StepName — отображаемое имя шага.
	StepName string `json:"step_name"`

	// Params — снимок Bag на момент начала выполнения.
	// Глубокая копия: дальнейшие мутации прогона запись не меняют.
	Params *params.Bag `json:"params"`

	// StartedAt — время начала выполнения.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время завершения.
	// Инвариант: FinishedAt >= StartedAt после финализации.
	FinishedAt time.Time `json:"finished_at"`

	// Duration — продолжительность выполнения (FinishedAt - StartedAt).
	Duration time.Duration `json:"duration_ns"`

	// Success — успешность выполнения.
	Success bool `json:"success"`

	// Outcome — результат вызова шага.
	Outcome *step.Outcome `json:"outcome"`

	// Error — текст ошибки, если действие вернуло error
	// вместо неуспешного Outcome. Пустая строка в остальных случаях.
	Error string `json:"error,omitempty"`

	// Err — исходная ошибка действия (не сериализуется).
	// Даёт вызывающим доступ через errors.Is/As.
	Err error `json:"-"`
}

// NewRecord создаёт запись в момент начала выполнения шага.
func NewRecord(stepID, stepName string, snapshot *params.Bag) *Record {
	return &Record{
		ID:        uuid.New(),
		StepID:    stepID,
		StepName:  stepName,
		Params:    snapshot,
		StartedAt: time.Now(),
	}
}

// Finalize завершает запись: фиксирует время окончания, результат
// и захваченную ошибку действия (если была).
func (r *Record) Finalize(outcome *step.Outcome, err error) {
	r.FinishedAt = time.Now()
	if r.FinishedAt.Before(r.StartedAt) {
		// Защита от сдвига монотонных часов
		r.FinishedAt = r.StartedAt
	}
	r.Duration = r.FinishedAt.Sub(r.StartedAt)
	r.Outcome = outcome
	if outcome != nil {
		r.Success = outcome.Success
	}
	if err != nil {
		r.Err = err
		r.Error = err.Error()
	}
}
