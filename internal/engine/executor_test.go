package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

func newTestExecutor(t *testing.T) (*Executor, *history.Log) {
	t.Helper()
	log := history.NewLog()
	return NewExecutor(step.NewRegistry(), log), log
}

func TestExecutor_Execute_Success(t *testing.T) {
	ex, log := newTestExecutor(t)

	ex.Registry().Register("ok", "Always ok", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return step.NewSuccess("done"), nil
	})

	outcome := ex.Execute(context.Background(), "ok", params.NewBag())

	if !outcome.Success {
		t.Error("expected success")
	}
	if log.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", log.Len())
	}

	rec := log.All()[0]
	if rec.StepID != "ok" || rec.StepName != "Always ok" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if !rec.Success {
		t.Error("record should be success")
	}
	if rec.Error != "" {
		t.Errorf("record should have no error, got %q", rec.Error)
	}
}

func TestExecutor_Execute_StepNotFound(t *testing.T) {
	ex, log := newTestExecutor(t)

	outcome := ex.Execute(context.Background(), "ghost", params.NewBag())

	if outcome.Success {
		t.Error("expected failure")
	}
	if outcome.Message != "step 'ghost' not found" {
		t.Errorf("unexpected message: %q", outcome.Message)
	}
	if !outcome.ShouldAbort() {
		t.Error("missing step should abort")
	}

	// Запись истории создаётся даже для отсутствующего шага
	if log.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", log.Len())
	}
	rec := log.All()[0]
	if rec.StepID != "ghost" {
		t.Errorf("unexpected step id: %q", rec.StepID)
	}
}

func TestExecutor_Execute_ActionError(t *testing.T) {
	ex, log := newTestExecutor(t)

	wantErr := errors.New("device unreachable")
	ex.Registry().Register("bad", "Failing step", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return nil, wantErr
	})

	outcome := ex.Execute(context.Background(), "bad", params.NewBag())

	if outcome.Success {
		t.Error("expected failure")
	}
	if outcome.Message != "device unreachable" {
		t.Errorf("unexpected message: %q", outcome.Message)
	}
	if !outcome.ShouldAbort() {
		t.Error("synthesized failure should abort")
	}

	rec := log.All()[0]
	if rec.Error != "device unreachable" {
		t.Errorf("record should capture the error, got %q", rec.Error)
	}
	if !errors.Is(rec.Err, wantErr) {
		t.Error("record should keep the original error")
	}
}

func TestExecutor_Execute_ActionPanic(t *testing.T) {
	ex, log := newTestExecutor(t)

	ex.Registry().Register("panicky", "Panics", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		panic("index out of range")
	})

	outcome := ex.Execute(context.Background(), "panicky", params.NewBag())

	if outcome.Success {
		t.Error("expected failure")
	}

	rec := log.All()[0]
	if !errors.Is(rec.Err, ErrActionPanic) {
		t.Errorf("expected ErrActionPanic, got %v", rec.Err)
	}
}

func TestExecutor_Execute_NilOutcome(t *testing.T) {
	ex, log := newTestExecutor(t)

	ex.Registry().Register("empty", "Returns nothing", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return nil, nil
	})

	outcome := ex.Execute(context.Background(), "empty", params.NewBag())

	if outcome.Success {
		t.Error("nil outcome should become failure")
	}

	rec := log.All()[0]
	if !errors.Is(rec.Err, ErrNilOutcome) {
		t.Errorf("expected ErrNilOutcome, got %v", rec.Err)
	}
}

func TestExecutor_Execute_ExactlyOneRecordPerCall(t *testing.T) {
	ex, log := newTestExecutor(t)

	ex.Registry().Register("ok", "", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return step.NewSuccess(""), nil
	})

	ex.Execute(context.Background(), "ok", params.NewBag())
	ex.Execute(context.Background(), "ok", params.NewBag())
	ex.Execute(context.Background(), "ghost", params.NewBag())

	if log.Len() != 3 {
		t.Errorf("expected 3 records, got %d", log.Len())
	}
}

func TestExecutor_Execute_RecordTiming(t *testing.T) {
	ex, log := newTestExecutor(t)

	ex.Registry().Register("ok", "", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return step.NewSuccess(""), nil
	})

	ex.Execute(context.Background(), "ok", params.NewBag())

	rec := log.All()[0]
	if rec.FinishedAt.Before(rec.StartedAt) {
		t.Error("FinishedAt must not precede StartedAt")
	}
	if rec.Duration < 0 {
		t.Errorf("duration must be non-negative, got %v", rec.Duration)
	}
}

func TestExecutor_Execute_ParamsSnapshot(t *testing.T) {
	ex, log := newTestExecutor(t)

	ex.Registry().Register("mutate", "", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		bag.SetString("during", "added")
		return step.NewSuccess(""), nil
	})

	bag := params.NewBag()
	bag.SetString("before", "value")
	ex.Execute(context.Background(), "mutate", bag)

	// Снимок в записи сделан до вызова действия
	rec := log.All()[0]
	if rec.Params.Has("during") {
		t.Error("record params should be a snapshot taken before the action ran")
	}
	if !rec.Params.Has("before") {
		t.Error("record params should contain the input")
	}
}
