package actions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

// --- Build и Register ---

func TestBuild_UnknownType(t *testing.T) {
	_, err := Build("teleport", nil)
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	reg := step.NewRegistry()

	defs := []Def{
		{ID: "wait", Name: "Wait a bit", Type: "delay", Config: map[string]any{"duration_ms": 1}},
		{ID: "calc", Name: "Compute", Type: "transform", Config: map[string]any{
			"mappings": map[string]any{"out": "{{ .Params.in }}"},
		}},
	}

	if err := Register(reg, defs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Count() != 2 {
		t.Errorf("expected 2 steps, got %d", reg.Count())
	}
}

func TestRegister_InvalidDef(t *testing.T) {
	reg := step.NewRegistry()

	err := Register(reg, []Def{
		{ID: "broken", Type: "delay", Config: map[string]any{}},
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadDefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	content := `[
		{"id": "wait", "name": "Wait", "type": "delay", "config": {"duration_ms": 5}}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadDefs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 || defs[0].ID != "wait" {
		t.Errorf("unexpected defs: %+v", defs)
	}
}

func TestLoadDefs_MissingFile(t *testing.T) {
	if _, err := LoadDefs("/nonexistent/steps.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

// --- Delay ---

func TestDelay(t *testing.T) {
	action := Delay(10 * time.Millisecond)

	start := time.Now()
	outcome, err := action(context.Background(), params.NewBag())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Error("expected success")
	}
	if elapsed < 10*time.Millisecond {
		t.Errorf("delay returned too early: %v", elapsed)
	}

	ms, _ := outcome.Output.GetInt("delayed_ms")
	if ms != 10 {
		t.Errorf("expected delayed_ms=10, got %d", ms)
	}
}

func TestDelay_Cancelled(t *testing.T) {
	action := Delay(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := action(ctx, params.NewBag())

	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation should interrupt the delay promptly")
	}
}

// --- Transform ---

func TestTransform(t *testing.T) {
	action := Transform(map[string]string{
		"greeting": "hello {{ .Params.user }}",
		"static":   "constant",
	})

	bag := params.NewBag()
	bag.SetString("user", "oleg")

	outcome, err := action(context.Background(), bag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Error("expected success")
	}

	if s, _ := outcome.Output.GetString("greeting"); s != "hello oleg" {
		t.Errorf("unexpected greeting: %q", s)
	}
	if s, _ := outcome.Output.GetString("static"); s != "constant" {
		t.Errorf("unexpected static: %q", s)
	}
}

func TestTransform_BadTemplate(t *testing.T) {
	action := Transform(map[string]string{"bad": "{{ .Params.x"})

	if _, err := action(context.Background(), params.NewBag()); err == nil {
		t.Error("expected error for broken template")
	}
}

// --- Check ---

func TestCheck_Match(t *testing.T) {
	action := Check("voltage", params.Decimal(3.3), 0.05, true)

	bag := params.NewBag()
	bag.SetDecimal("voltage", 3.32)

	outcome, err := action(context.Background(), bag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Errorf("expected success: %s", outcome.Message)
	}

	if match, _ := outcome.Output.GetBool("match"); !match {
		t.Error("output should report match=true")
	}
}

func TestCheck_Mismatch_Aborts(t *testing.T) {
	action := Check("voltage", params.Decimal(3.3), 0.01, true)

	bag := params.NewBag()
	bag.SetDecimal("voltage", 3.5)

	outcome, err := action(context.Background(), bag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Success {
		t.Error("expected failure")
	}
	if !outcome.ShouldAbort() {
		t.Error("abortOnFailure=true should abort")
	}
}

func TestCheck_Mismatch_Soft(t *testing.T) {
	action := Check("voltage", params.Decimal(3.3), 0.01, false)

	bag := params.NewBag()
	bag.SetDecimal("voltage", 3.5)

	outcome, _ := action(context.Background(), bag)
	if outcome.Success {
		t.Error("expected failure")
	}
	if outcome.ShouldAbort() {
		t.Error("abortOnFailure=false should not abort")
	}
}

func TestCheck_MissingParam(t *testing.T) {
	action := Check("ghost", params.Int(1), 0, true)

	outcome, err := action(context.Background(), params.NewBag())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Success {
		t.Error("missing parameter should fail the check")
	}
}

// --- Generate ---

func TestGenerate(t *testing.T) {
	action, err := buildGenerate(map[string]any{
		"values": map[string]any{
			"serial": map[string]any{"type": "counter", "start": 500},
			"token":  map[string]any{"type": "random_string", "length": 8},
			"label":  map[string]any{"type": "fixed", "value": "bench"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome, err := action(context.Background(), params.NewBag())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Error("expected success")
	}

	if n, _ := outcome.Output.GetInt("serial"); n != 500 {
		t.Errorf("expected serial=500, got %d", n)
	}
	if s, _ := outcome.Output.GetString("token"); len(s) != 8 {
		t.Errorf("expected token of length 8, got %q", s)
	}
	if s, _ := outcome.Output.GetString("label"); s != "bench" {
		t.Errorf("expected label=bench, got %q", s)
	}
}

func TestBuildGenerate_UnknownGenerator(t *testing.T) {
	_, err := buildGenerate(map[string]any{
		"values": map[string]any{
			"x": map[string]any{"type": "quantum"},
		},
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

// --- HTTP ---

func TestHTTPRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/devices/psu-01" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"state": "on", "watts": 42}`))
	}))
	defer srv.Close()

	action := HTTPRequest(HTTPConfig{
		Method: http.MethodGet,
		URL:    srv.URL + "/devices/{{ .Params.device }}",
	})

	bag := params.NewBag()
	bag.SetString("device", "psu-01")

	outcome, err := action(context.Background(), bag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Errorf("expected success: %s", outcome.Message)
	}

	if code, _ := outcome.Output.GetInt("status_code"); code != 200 {
		t.Errorf("expected status 200, got %d", code)
	}

	// JSON тело распарсено в map
	body, _ := outcome.Output.Get("body")
	bodyMap, ok := body.AsMap()
	if !ok {
		t.Fatalf("body should be a map, got %s", body.Kind())
	}
	if s, _ := bodyMap.GetString("state"); s != "on" {
		t.Errorf("expected state=on, got %q", s)
	}
	if n, _ := bodyMap.GetInt("watts"); n != 42 {
		t.Errorf("expected watts=42, got %d", n)
	}
}

func TestHTTPRequest_ExpectStatusMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	action := HTTPRequest(HTTPConfig{
		Method:         http.MethodGet,
		URL:            srv.URL,
		ExpectStatus:   http.StatusOK,
		AbortOnFailure: true,
	})

	outcome, err := action(context.Background(), params.NewBag())
	if err != nil {
		t.Fatalf("status mismatch is a soft failure, not an error: %v", err)
	}
	if outcome.Success {
		t.Error("expected failure")
	}
	if !outcome.ShouldAbort() {
		t.Error("abort_on_failure=true should abort")
	}

	// status_code всё равно в выходных данных
	if code, _ := outcome.Output.GetInt("status_code"); code != 500 {
		t.Errorf("expected status 500, got %d", code)
	}
}

func TestBuildHTTP_RequiresURL(t *testing.T) {
	_, err := buildHTTP(map[string]any{"method": "GET"})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
