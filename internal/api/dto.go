package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Sequentia/internal/domain"
	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

// Step DTOs

// StepResponse — описание зарегистрированного шага.
type StepResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StepFromDomain конвертирует step.Step в StepResponse.
func StepFromDomain(s *step.Step) StepResponse {
	return StepResponse{
		ID:   s.ID,
		Name: s.Name,
	}
}

// Run DTOs

// CreateRunRequest — запрос на запуск последовательности.
type CreateRunRequest struct {
	// StepIDs — упорядоченный список ID шагов.
	StepIDs []string `json:"step_ids"`

	// Params — входные параметры прогона.
	Params map[string]any `json:"params,omitempty"`

	// Async — если true, ответ возвращается сразу (202),
	// а прогон выполняется в фоне.
	Async bool `json:"async,omitempty"`
}

// RunResponse — ответ с прогоном.
type RunResponse struct {
	ID         uuid.UUID   `json:"id"`
	StepIDs    []string    `json:"step_ids"`
	Status     string      `json:"status"`
	Params     *params.Bag `json:"params,omitempty"`
	StepsRun   int         `json:"steps_run"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// RunFromDomain конвертирует domain.SequenceRun в RunResponse.
func RunFromDomain(r *domain.SequenceRun) RunResponse {
	return RunResponse{
		ID:         r.ID,
		StepIDs:    r.StepIDs,
		Status:     string(r.Status),
		Params:     r.Params,
		StepsRun:   r.StepsRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
}

// RunDetailResponse — прогон вместе с записями истории.
// Записи history.Record сериализуются собственными JSON-тегами.
type RunDetailResponse struct {
	RunResponse
	Records []*history.Record `json:"records"`
}

// Schedule DTOs

// CreateScheduleRequest — запрос на создание schedule.
type CreateScheduleRequest struct {
	Name        string         `json:"name"`
	StepIDs     []string       `json:"step_ids"`
	CronExpr    string         `json:"cron_expr,omitempty"`
	IntervalSec int            `json:"interval_sec,omitempty"`
	Timezone    string         `json:"timezone,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	Enabled     bool           `json:"enabled"`
}

// UpdateScheduleRequest — запрос на обновление schedule.
type UpdateScheduleRequest struct {
	Name        *string        `json:"name,omitempty"`
	StepIDs     []string       `json:"step_ids,omitempty"`
	CronExpr    *string        `json:"cron_expr,omitempty"`
	IntervalSec *int           `json:"interval_sec,omitempty"`
	Timezone    *string        `json:"timezone,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// SetScheduleEnabledRequest — запрос на включение/выключение schedule.
type SetScheduleEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ScheduleResponse — ответ со schedule.
type ScheduleResponse struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name,omitempty"`
	StepIDs     []string       `json:"step_ids"`
	CronExpr    string         `json:"cron_expr,omitempty"`
	IntervalSec int            `json:"interval_sec,omitempty"`
	Timezone    string         `json:"timezone"`
	Enabled     bool           `json:"enabled"`
	Params      map[string]any `json:"params,omitempty"`
	NextDueAt   *time.Time     `json:"next_due_at,omitempty"`
	LastRunAt   *time.Time     `json:"last_run_at,omitempty"`
	LastRunID   *uuid.UUID     `json:"last_run_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ScheduleFromDomain конвертирует domain.Schedule в ScheduleResponse.
func ScheduleFromDomain(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:          s.ID,
		Name:        s.Name,
		StepIDs:     s.StepIDs,
		CronExpr:    s.CronExpr,
		IntervalSec: s.IntervalSec,
		Timezone:    s.Timezone,
		Enabled:     s.Enabled,
		Params:      s.Params,
		NextDueAt:   s.NextDueAt,
		LastRunAt:   s.LastRunAt,
		LastRunID:   s.LastRunID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
