package actions

import (
	"context"
	"fmt"

	"github.com/shaiso/Sequentia/internal/compare"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

const (
	// TypeCheck — тип шага проверки значения параметра.
	TypeCheck = "check"

	configKey       = "key"
	configExpected  = "expected"
	configTolerance = "tolerance"
)

// Check возвращает действие, сравнивающее значение параметра с
// ожидаемым. Числа сравниваются с допуском tolerance.
//
// Несовпадение — "мягкая" неудача: шаг сам сообщает её через Outcome,
// политика прерывания задаётся abortOnFailure.
func Check(key string, expected params.Value, tolerance float64, abortOnFailure bool) step.Action {
	return func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		actual, ok := bag.Get(key)
		if !ok {
			outcome := step.NewFailure(fmt.Sprintf("parameter %q is not set", key))
			if !abortOnFailure {
				outcome.ContinueOnFailure()
			}
			return outcome, nil
		}

		res := compare.Values(expected, actual, tolerance)

		output := params.NewBag()
		output.SetBool("match", res.Match)
		if res.Difference != 0 {
			output.SetDecimal("difference", res.Difference)
		}

		if res.Match {
			return step.NewSuccess(res.Message).WithOutput(output), nil
		}
		outcome := step.NewFailure(fmt.Sprintf("check %q: %s", key, res.Message)).
			WithOutput(output)
		if !abortOnFailure {
			outcome.ContinueOnFailure()
		}
		return outcome, nil
	}
}

// buildCheck собирает действие check из конфигурации.
func buildCheck(config map[string]any) (step.Action, error) {
	key := GetConfigString(config, configKey)
	if key == "" {
		return nil, fmt.Errorf("%w: %s: key is required", ErrInvalidConfig, TypeCheck)
	}

	raw, ok := config[configExpected]
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected is required", ErrInvalidConfig, TypeCheck)
	}
	expected, err := params.FromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, TypeCheck, err)
	}

	tolerance := GetConfigFloat(config, configTolerance)
	abort := GetConfigBool(config, configAbortOnFailure, true)

	return Check(key, expected, tolerance, abort), nil
}
