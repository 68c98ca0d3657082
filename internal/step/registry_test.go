package step

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shaiso/Sequentia/internal/params"
)

func noopAction(ctx context.Context, bag *params.Bag) (*Outcome, error) {
	return NewSuccess("ok"), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("ping", "Ping the device", noopAction); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := reg.Get("ping")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID != "ping" || s.Name != "Ping the device" {
		t.Errorf("unexpected step: %+v", s)
	}
}

func TestRegistry_Register_EmptyID(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register("", "nameless", noopAction)
	if !errors.Is(err, ErrEmptyStepID) {
		t.Errorf("expected ErrEmptyStepID, got %v", err)
	}
}

func TestRegistry_Register_NilAction(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register("broken", "no action", nil)
	if !errors.Is(err, ErrNilAction) {
		t.Errorf("expected ErrNilAction, got %v", err)
	}
}

func TestRegistry_Register_Overwrite(t *testing.T) {
	reg := NewRegistry()

	reg.Register("dup", "first", noopAction)
	reg.Register("dup", "second", noopAction)

	s, err := reg.Get("dup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "second" {
		t.Errorf("re-registration should overwrite, got %q", s.Name)
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 step, got %d", reg.Count())
	}
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get("ghost")
	if !errors.Is(err, ErrStepNotFound) {
		t.Errorf("expected ErrStepNotFound, got %v", err)
	}
}

func TestRegistry_IDs_Sorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register("c", "", noopAction)
	reg.Register("a", "", noopAction)
	reg.Register("b", "", noopAction)

	want := []string{"a", "b", "c"}
	if got := reg.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("temp", "", noopAction)

	reg.Unregister("temp")

	if reg.Has("temp") {
		t.Error("temp should be unregistered")
	}

	// Удаление несуществующего шага не паникует
	reg.Unregister("ghost")
}

// --- Outcome ---

func TestNewSuccess_Defaults(t *testing.T) {
	o := NewSuccess("done")

	if !o.Success {
		t.Error("should be success")
	}
	if o.Message != "done" {
		t.Errorf("unexpected message: %q", o.Message)
	}
	if !o.AbortOnFailure {
		t.Error("AbortOnFailure should default to true")
	}
	if o.ShouldAbort() {
		t.Error("success never aborts")
	}
}

func TestNewFailure_Aborts(t *testing.T) {
	o := NewFailure("boom")

	if o.Success {
		t.Error("should be failure")
	}
	if !o.ShouldAbort() {
		t.Error("failure with default policy should abort")
	}
}

func TestOutcome_ContinueOnFailure(t *testing.T) {
	o := NewFailure("soft").ContinueOnFailure()

	if o.ShouldAbort() {
		t.Error("continue-on-failure outcome should not abort")
	}
}

func TestOutcome_WithOutputAndArtifact(t *testing.T) {
	out := params.NewBag()
	out.SetString("result", "42")

	o := NewSuccess("ok").WithOutput(out).WithArtifact("report.txt").WithArtifact("trace.log")

	if o.Output == nil || !o.Output.Has("result") {
		t.Error("output should be attached")
	}
	if len(o.Artifacts) != 2 {
		t.Errorf("expected 2 artifacts, got %d", len(o.Artifacts))
	}
}
