package compare

import (
	"testing"
	"time"

	"github.com/shaiso/Sequentia/internal/params"
)

func TestNumeric_WithinTolerance(t *testing.T) {
	// Разница 0.00002 меньше допуска 0.00005
	res := Numeric(1.00050, 1.00052, 0.00005)

	if !res.Match {
		t.Errorf("expected match: %s", res.Message)
	}
}

func TestNumeric_OutsideTolerance(t *testing.T) {
	// Разница 0.0010 больше допуска 0.0001
	res := Numeric(1.0000, 1.0010, 0.0001)

	if res.Match {
		t.Error("expected mismatch")
	}
	if res.Difference == 0 {
		t.Error("difference should be reported")
	}
}

func TestNumeric_ExactBoundary(t *testing.T) {
	// Разница ровно в допуск считается совпадением
	res := Numeric(1.0, 1.1, 0.1)

	if !res.Match {
		t.Errorf("difference equal to tolerance should match: %s", res.Message)
	}
}

func TestNumeric_ZeroTolerance(t *testing.T) {
	if res := Numeric(5.0, 5.0, 0); !res.Match {
		t.Error("identical values should match with zero tolerance")
	}
	if res := Numeric(5.0, 5.0000001, 0); res.Match {
		t.Error("any difference should fail with zero tolerance")
	}
}

func TestStrings(t *testing.T) {
	if res := Strings("PASS", "PASS"); !res.Match {
		t.Error("identical strings should match")
	}

	res := Strings("PASS", "FAIL")
	if res.Match {
		t.Error("different strings should not match")
	}
	if res.Message == "" {
		t.Error("mismatch should carry a message")
	}
}

func TestTimes(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		actual    time.Time
		tolerance time.Duration
		match     bool
	}{
		{"exact", base, 0, true},
		{"within tolerance", base.Add(30 * time.Millisecond), 50 * time.Millisecond, true},
		{"outside tolerance", base.Add(2 * time.Second), time.Second, false},
		{"actual earlier", base.Add(-30 * time.Millisecond), 50 * time.Millisecond, true},
	}

	for _, tc := range cases {
		res := Times(base, tc.actual, tc.tolerance)
		if res.Match != tc.match {
			t.Errorf("%s: expected match=%v, got %v (%s)", tc.name, tc.match, res.Match, res.Message)
		}
	}
}

func TestValues_Numeric(t *testing.T) {
	// Числовые значения сравниваются с допуском, независимо от вида
	res := Values(params.Decimal(1.00050), params.Decimal(1.00052), 0.00005)
	if !res.Match {
		t.Errorf("expected match: %s", res.Message)
	}

	// Int против Decimal тоже числовое сравнение
	res = Values(params.Int(5), params.Decimal(5.00001), 0.001)
	if !res.Match {
		t.Errorf("int vs decimal within tolerance should match: %s", res.Message)
	}
}

func TestValues_Strings(t *testing.T) {
	if res := Values(params.String("ok"), params.String("ok"), 0); !res.Match {
		t.Error("identical strings should match")
	}
	if res := Values(params.String("ok"), params.String("fail"), 0); res.Match {
		t.Error("different strings should not match")
	}
}

func TestValues_Times(t *testing.T) {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	res := Values(params.Time(base), params.Time(base.Add(time.Millisecond)), 0.01)
	if !res.Match {
		t.Errorf("times within tolerance should match: %s", res.Message)
	}
}

func TestValues_KindMismatch(t *testing.T) {
	res := Values(params.String("5"), params.Bool(true), 0)
	if res.Match {
		t.Error("incomparable kinds should not match")
	}
}
