package engine

import (
	"context"
	"testing"

	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

func newTestRunner(t *testing.T) (*Runner, *history.Log) {
	t.Helper()
	log := history.NewLog()
	return NewRunner(NewExecutor(step.NewRegistry(), log)), log
}

func register(t *testing.T, r *Runner, id string, action step.Action) {
	t.Helper()
	if err := r.Executor().Registry().Register(id, id, action); err != nil {
		t.Fatalf("register %s: %v", id, err)
	}
}

func successAction(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
	return step.NewSuccess("ok"), nil
}

func TestRunner_RunSequence_Empty(t *testing.T) {
	r, log := newTestRunner(t)

	result := r.RunSequence(context.Background(), nil, params.NewBag())

	if len(result) != 0 {
		t.Errorf("expected empty result, got %d outcomes", len(result))
	}
	if !result.OK() {
		t.Error("empty result should be OK")
	}
	if log.Len() != 0 {
		t.Errorf("no records expected, got %d", log.Len())
	}
}

func TestRunner_RunSequence_AllSucceed(t *testing.T) {
	r, log := newTestRunner(t)
	register(t, r, "a", successAction)
	register(t, r, "b", successAction)
	register(t, r, "c", successAction)

	result := r.RunSequence(context.Background(), []string{"a", "b", "c"}, params.NewBag())

	if len(result) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(result))
	}
	if !result.OK() {
		t.Error("all steps succeeded, result should be OK")
	}
	if result.Aborted() {
		t.Error("successful run should not be aborted")
	}
	if idx, failure := result.FirstFailure(); idx != -1 || failure != nil {
		t.Errorf("expected no failure, got index %d", idx)
	}
	if log.Len() != 3 {
		t.Errorf("expected 3 records, got %d", log.Len())
	}
}

func TestRunner_RunSequence_AbortsOnFailure(t *testing.T) {
	r, log := newTestRunner(t)
	register(t, r, "a", successAction)
	register(t, r, "fail", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return step.NewFailure("limit exceeded"), nil
	})
	register(t, r, "never", successAction)

	result := r.RunSequence(context.Background(), []string{"a", "fail", "never"}, params.NewBag())

	if len(result) != 2 {
		t.Fatalf("run should stop after the failure, got %d outcomes", len(result))
	}
	if result.OK() {
		t.Error("result should not be OK")
	}
	if !result.Aborted() {
		t.Error("result should be aborted")
	}

	idx, failure := result.FirstFailure()
	if idx != 1 {
		t.Errorf("expected failure at index 1, got %d", idx)
	}
	if failure.Message != "limit exceeded" {
		t.Errorf("unexpected failure message: %q", failure.Message)
	}

	// Шаг never не выполнялся и записи не оставил
	if log.Len() != 2 {
		t.Errorf("expected 2 records, got %d", log.Len())
	}
}

func TestRunner_RunSequence_ContinueOnFailure(t *testing.T) {
	r, _ := newTestRunner(t)
	register(t, r, "soft", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		return step.NewFailure("tolerable").ContinueOnFailure(), nil
	})
	register(t, r, "after", successAction)

	result := r.RunSequence(context.Background(), []string{"soft", "after"}, params.NewBag())

	if len(result) != 2 {
		t.Fatalf("run should continue past a soft failure, got %d outcomes", len(result))
	}
	if result.OK() {
		t.Error("result contains a failure, should not be OK")
	}
	if result.Aborted() {
		t.Error("run finished the whole sequence, should not be aborted")
	}
}

func TestRunner_RunSequence_MergesOutput(t *testing.T) {
	r, _ := newTestRunner(t)

	register(t, r, "produce", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		out := params.NewBag()
		out.SetInt("x", 10)
		return step.NewSuccess("produced").WithOutput(out), nil
	})

	var seen int64
	register(t, r, "consume", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		seen, _ = bag.GetInt("x")
		return step.NewSuccess("consumed"), nil
	})

	bag := params.NewBag()
	r.RunSequence(context.Background(), []string{"produce", "consume"}, bag)

	if seen != 10 {
		t.Errorf("consume should see x=10, got %d", seen)
	}
	if n, _ := bag.GetInt("x"); n != 10 {
		t.Errorf("output should be merged into the shared bag, got %d", n)
	}
}

func TestRunner_RunSequence_OutputOverwrites(t *testing.T) {
	r, _ := newTestRunner(t)

	register(t, r, "overwrite", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		out := params.NewBag()
		out.SetString("mode", "updated")
		return step.NewSuccess("").WithOutput(out), nil
	})

	bag := params.NewBag()
	bag.SetString("mode", "initial")
	r.RunSequence(context.Background(), []string{"overwrite"}, bag)

	if s, _ := bag.GetString("mode"); s != "updated" {
		t.Errorf("output should overwrite existing key, got %q", s)
	}
}

func TestRunner_RunSequence_NilBag(t *testing.T) {
	r, _ := newTestRunner(t)
	register(t, r, "a", successAction)

	// nil bag не паникует
	result := r.RunSequence(context.Background(), []string{"a"}, nil)
	if !result.OK() {
		t.Error("expected success with nil bag")
	}
}

func TestRunner_RunSequence_DuplicateIDs(t *testing.T) {
	r, log := newTestRunner(t)

	var calls int
	register(t, r, "twice", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		calls++
		return step.NewSuccess(""), nil
	})

	result := r.RunSequence(context.Background(), []string{"twice", "twice"}, params.NewBag())

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 outcomes, got %d", len(result))
	}
	if log.Len() != 2 {
		t.Errorf("expected 2 records, got %d", log.Len())
	}
}

func TestRunner_RunSequence_MissingStepAborts(t *testing.T) {
	r, _ := newTestRunner(t)
	register(t, r, "a", successAction)

	result := r.RunSequence(context.Background(), []string{"ghost", "a"}, params.NewBag())

	if len(result) != 1 {
		t.Fatalf("missing step should abort the run, got %d outcomes", len(result))
	}
	if !result.Aborted() {
		t.Error("result should be aborted")
	}
}

func TestRunner_RunSequence_ContextCancellation(t *testing.T) {
	r, _ := newTestRunner(t)

	register(t, r, "cancellable", func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return step.NewSuccess(""), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.RunSequence(ctx, []string{"cancellable", "cancellable"}, params.NewBag())

	if len(result) != 1 {
		t.Fatalf("cancelled run should stop on the first step, got %d outcomes", len(result))
	}
	if !result.Aborted() {
		t.Error("cancelled run should be aborted")
	}
}
