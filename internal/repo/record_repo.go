package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

// RecordRepo — репозиторий записей истории выполнения шагов.
//
// Записи пишутся после завершения прогона (write-behind архив);
// журнал в памяти остаётся источником истины для интроспекции.
type RecordRepo struct {
	pool *pgxpool.Pool
}

// NewRecordRepo создаёт новый RecordRepo.
func NewRecordRepo(pool *pgxpool.Pool) *RecordRepo {
	return &RecordRepo{pool: pool}
}

// InsertBatch сохраняет записи одного прогона.
func (r *RecordRepo) InsertBatch(ctx context.Context, runID uuid.UUID, records []*history.Record) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO step_records
			(id, run_id, step_id, step_name, params, started_at, finished_at,
			 duration_ns, success, outcome, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, rec := range records {
		paramsJSON, err := json.Marshal(rec.Params)
		if err != nil {
			return fmt.Errorf("marshal record params: %w", err)
		}
		outcomeJSON, err := json.Marshal(rec.Outcome)
		if err != nil {
			return fmt.Errorf("marshal outcome: %w", err)
		}
		batch.Queue(query,
			rec.ID,
			runID,
			rec.StepID,
			rec.StepName,
			paramsJSON,
			rec.StartedAt,
			rec.FinishedAt,
			rec.Duration.Nanoseconds(),
			rec.Success,
			outcomeJSON,
			nullString(rec.Error),
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert step record: %w", err)
		}
	}
	return nil
}

// ListByRun возвращает записи прогона в порядке выполнения.
func (r *RecordRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*history.Record, error) {
	query := `
		SELECT id, step_id, step_name, params, started_at, finished_at,
		       duration_ns, success, outcome, error
		FROM step_records
		WHERE run_id = $1
		ORDER BY started_at ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list step records: %w", err)
	}
	defer rows.Close()

	var records []*history.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanRecord сканирует одну строку в Record.
func scanRecord(row pgx.Row) (*history.Record, error) {
	var rec history.Record
	var paramsJSON, outcomeJSON []byte
	var durationNS int64
	var recError *string

	err := row.Scan(
		&rec.ID,
		&rec.StepID,
		&rec.StepName,
		&paramsJSON,
		&rec.StartedAt,
		&rec.FinishedAt,
		&durationNS,
		&rec.Success,
		&outcomeJSON,
		&recError,
	)
	if err != nil {
		return nil, fmt.Errorf("scan step record: %w", err)
	}

	rec.Duration = time.Duration(durationNS)
	if paramsJSON != nil {
		bag := params.NewBag()
		if err := bag.UnmarshalJSON(paramsJSON); err != nil {
			return nil, fmt.Errorf("unmarshal record params: %w", err)
		}
		rec.Params = bag
	}
	if outcomeJSON != nil {
		var outcome step.Outcome
		if err := json.Unmarshal(outcomeJSON, &outcome); err != nil {
			return nil, fmt.Errorf("unmarshal outcome: %w", err)
		}
		rec.Outcome = &outcome
	}
	if recError != nil {
		rec.Error = *recError
	}
	return &rec, nil
}
