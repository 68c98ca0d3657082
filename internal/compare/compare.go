package compare

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shaiso/Sequentia/internal/params"
)

// Result — результат сравнения двух значений.
type Result struct {
	// Match — совпали ли значения.
	Match bool `json:"match"`

	// Difference — абсолютная разница (для числовых сравнений).
	Difference float64 `json:"difference,omitempty"`

	// Message — человекочитаемое описание результата.
	Message string `json:"message"`
}

// Numeric сравнивает два числа с допуском.
//
// Совпадением считается |expected - actual| <= tolerance:
//
//	compare.Numeric(1.00050, 1.00052, 0.00005) // match
//	compare.Numeric(1.0000, 1.0010, 0.0001)    // mismatch, diff 0.0010
func Numeric(expected, actual, tolerance float64) Result {
	diff := math.Abs(expected - actual)
	if diff <= tolerance {
		return Result{
			Match:      true,
			Difference: diff,
			Message: fmt.Sprintf("values match within tolerance %s (diff %s)",
				formatFloat(tolerance), formatFloat(diff)),
		}
	}
	return Result{
		Match:      false,
		Difference: diff,
		Message: fmt.Sprintf("expected %s, got %s: difference %s exceeds tolerance %s",
			formatFloat(expected), formatFloat(actual), formatFloat(diff), formatFloat(tolerance)),
	}
}

// Strings сравнивает две строки на точное равенство.
func Strings(expected, actual string) Result {
	if expected == actual {
		return Result{Match: true, Message: "strings match"}
	}
	return Result{
		Match:   false,
		Message: fmt.Sprintf("expected %q, got %q", expected, actual),
	}
}

// Times сравнивает два момента времени с допуском.
func Times(expected, actual time.Time, tolerance time.Duration) Result {
	diff := expected.Sub(actual)
	if diff < 0 {
		diff = -diff
	}
	if diff <= tolerance {
		return Result{
			Match:      true,
			Difference: float64(diff),
			Message:    fmt.Sprintf("times match within %s (diff %s)", tolerance, diff),
		}
	}
	return Result{
		Match:      false,
		Difference: float64(diff),
		Message: fmt.Sprintf("expected %s, got %s: difference %s exceeds %s",
			expected.Format(time.RFC3339Nano), actual.Format(time.RFC3339Nano), diff, tolerance),
	}
}

// Values сравнивает два типизированных значения параметров.
//
// Числовые значения (int и decimal) сравниваются с допуском,
// остальные — на точное равенство по типу и содержимому.
func Values(expected, actual params.Value, tolerance float64) Result {
	ef, eNum := expected.AsDecimal()
	af, aNum := actual.AsDecimal()
	if eNum && aNum {
		return Numeric(ef, af, tolerance)
	}

	et, eTime := expected.AsTime()
	at, aTime := actual.AsTime()
	if eTime && aTime {
		return Times(et, at, time.Duration(tolerance*float64(time.Second)))
	}

	if expected.Equal(actual) {
		return Result{Match: true, Message: "values match"}
	}
	return Result{
		Match: false,
		Message: fmt.Sprintf("expected %s %q, got %s %q",
			expected.Kind(), expected.Text(), actual.Kind(), actual.Text()),
	}
}

// formatFloat форматирует float без хвостовых нулей.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
