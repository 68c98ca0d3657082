package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Sequentia/internal/domain"
	"github.com/shaiso/Sequentia/internal/params"
)

// RunRepo — репозиторий прогонов последовательностей.
//
// Архивное хранилище: источником истины во время выполнения остаётся
// движок и его журнал в памяти, репозиторий сохраняет итоговые
// состояния для истории и выборки через API.
type RunRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepo создаёт новый RunRepo.
func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

// Create сохраняет новый прогон.
func (r *RunRepo) Create(ctx context.Context, run *domain.SequenceRun) error {
	stepIDsJSON, err := json.Marshal(run.StepIDs)
	if err != nil {
		return fmt.Errorf("marshal step ids: %w", err)
	}
	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	query := `
		INSERT INTO runs (id, step_ids, status, params, steps_run, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID,
		stepIDsJSON,
		run.Status,
		paramsJSON,
		run.StepsRun,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID возвращает прогон по ID.
func (r *RunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SequenceRun, error) {
	query := `
		SELECT id, step_ids, status, params, steps_run, started_at,
		       finished_at, error, created_at
		FROM runs
		WHERE id = $1
	`
	return scanRun(r.pool.QueryRow(ctx, query, id))
}

// List возвращает прогоны с фильтрацией.
func (r *RunRepo) List(ctx context.Context, filter RunFilter) ([]domain.SequenceRun, error) {
	query := `
		SELECT id, step_ids, status, params, steps_run, started_at,
		       finished_at, error, created_at
		FROM runs
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SequenceRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Update сохраняет изменившееся состояние прогона.
func (r *RunRepo) Update(ctx context.Context, run *domain.SequenceRun) error {
	query := `
		UPDATE runs
		SET status = $2, steps_run = $3, started_at = $4, finished_at = $5, error = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Status,
		run.StepsRun,
		run.StartedAt,
		run.FinishedAt,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RunFilter — параметры фильтрации прогонов.
type RunFilter struct {
	Status domain.RunStatus
	Limit  int
	Offset int
}

// scanRun сканирует одну строку в SequenceRun.
func scanRun(row pgx.Row) (*domain.SequenceRun, error) {
	var run domain.SequenceRun
	var stepIDsJSON, paramsJSON []byte
	var runError *string

	err := row.Scan(
		&run.ID,
		&stepIDsJSON,
		&run.Status,
		&paramsJSON,
		&run.StepsRun,
		&run.StartedAt,
		&run.FinishedAt,
		&runError,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if stepIDsJSON != nil {
		if err := json.Unmarshal(stepIDsJSON, &run.StepIDs); err != nil {
			return nil, fmt.Errorf("unmarshal step ids: %w", err)
		}
	}
	if paramsJSON != nil {
		bag := params.NewBag()
		if err := bag.UnmarshalJSON(paramsJSON); err != nil {
			return nil, fmt.Errorf("unmarshal params: %w", err)
		}
		run.Params = bag
	}
	if runError != nil {
		run.Error = *runError
	}
	return &run, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullUUID возвращает nil для пустого UUID.
func nullUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
