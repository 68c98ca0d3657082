package render

import (
	"errors"
	"testing"

	"github.com/shaiso/Sequentia/internal/params"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	bag := params.NewBag()
	bag.SetString("device", "psu-01")
	bag.SetInt("channel", 2)
	bag.SetBool("armed", true)
	return NewContext(bag)
}

func TestRender_PlainString(t *testing.T) {
	got, err := Render("no templates here", testContext(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "no templates here" {
		t.Errorf("plain string should pass through, got %q", got)
	}
}

func TestRender_ParamSubstitution(t *testing.T) {
	got, err := Render("device={{ .Params.device }} ch={{ .Params.channel }}", testContext(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "device=psu-01 ch=2" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestRender_EnvAccess(t *testing.T) {
	ctx := testContext(t)
	ctx.SetEnv("STAND", "bench-3")

	got, err := Render("{{ .Env.STAND }}", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "bench-3" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestRender_Functions(t *testing.T) {
	cases := []struct {
		name string
		tmpl string
		want string
	}{
		{"upper", `{{ upper .Params.device }}`, "PSU-01"},
		{"contains", `{{ if contains .Params.device "psu" }}yes{{ end }}`, "yes"},
		{"default used", `{{ default "fallback" .Params.missing }}`, "fallback"},
		{"default skipped", `{{ default "fallback" .Params.device }}`, "psu-01"},
		{"replace", `{{ replace .Params.device "-" "_" }}`, "psu_01"},
	}

	for _, tc := range cases {
		got, err := Render(tc.tmpl, testContext(t))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRender_ParseError(t *testing.T) {
	_, err := Render("{{ .Params.device", testContext(t))
	if !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}
}

func TestRenderCondition(t *testing.T) {
	cases := []struct {
		name      string
		condition string
		want      bool
	}{
		{"empty is true", "", true},
		{"bool param", ".Params.armed", true},
		{"comparison", `eq .Params.device "psu-01"`, true},
		{"false comparison", `eq .Params.device "other"`, false},
	}

	for _, tc := range cases {
		got, err := RenderCondition(tc.condition, testContext(t))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
