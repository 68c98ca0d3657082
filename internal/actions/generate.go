package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/Sequentia/internal/generate"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

const (
	// TypeGenerate — тип шага генерации параметров.
	TypeGenerate = "generate"

	configValues = "values"
)

// Generate возвращает действие, заполняющее параметры значениями
// из генераторов. Значения попадают в выходные данные шага и
// вливаются Runner'ом в общий Bag.
func Generate(generators map[string]generate.Generator) step.Action {
	return func(ctx context.Context, _ *params.Bag) (*step.Outcome, error) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		output := params.NewBag()
		generate.Fill(output, generators)

		return step.NewSuccess(fmt.Sprintf("generated %d values", len(generators))).
			WithOutput(output), nil
	}
}

// buildGenerate собирает действие generate из конфигурации.
//
// Конфигурация — map ключ → спецификация генератора:
//
//	{
//	    "values": {
//	        "user_id":  {"type": "counter", "start": 1000},
//	        "nickname": {"type": "random_string", "length": 12},
//	        "amount":   {"type": "random_decimal", "min": 0.5, "max": 99.9},
//	        "attempts": {"type": "random_int", "min": 1, "max": 5},
//	        "fixed":    {"type": "fixed", "value": "constant"}
//	    }
//	}
func buildGenerate(config map[string]any) (step.Action, error) {
	specs := GetConfigMap(config, configValues)
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: %s: values required", ErrInvalidConfig, TypeGenerate)
	}

	generators := make(map[string]generate.Generator, len(specs))
	for key, raw := range specs {
		spec, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: value %q must be an object",
				ErrInvalidConfig, TypeGenerate, key)
		}
		gen, err := buildGenerator(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: value %q: %v", ErrInvalidConfig, TypeGenerate, key, err)
		}
		generators[key] = gen
	}

	return Generate(generators), nil
}

// buildGenerator собирает один генератор из спецификации.
func buildGenerator(spec map[string]any) (generate.Generator, error) {
	typ := GetConfigString(spec, "type")
	switch typ {
	case "fixed":
		raw, ok := spec["value"]
		if !ok {
			return nil, fmt.Errorf("fixed: value required")
		}
		v, err := params.FromAny(raw)
		if err != nil {
			return nil, err
		}
		return generate.NewFixed(v), nil
	case "random_string":
		return generate.NewRandomString(GetConfigInt(spec, "length")), nil
	case "random_int":
		return generate.NewRandomInt(
			int64(GetConfigInt(spec, "min")),
			int64(GetConfigInt(spec, "max"))), nil
	case "random_decimal":
		return generate.NewRandomDecimal(
			GetConfigFloat(spec, "min"),
			GetConfigFloat(spec, "max")), nil
	case "random_time":
		from, err := parseConfigTime(spec, "from")
		if err != nil {
			return nil, err
		}
		to, err := parseConfigTime(spec, "to")
		if err != nil {
			return nil, err
		}
		return generate.NewRandomTime(from, to), nil
	case "counter":
		return generate.NewCounter(int64(GetConfigInt(spec, "start"))), nil
	default:
		return nil, fmt.Errorf("unknown generator type %q", typ)
	}
}

// parseConfigTime читает RFC3339 время из спецификации генератора.
func parseConfigTime(spec map[string]any, key string) (time.Time, error) {
	s := GetConfigString(spec, key)
	if s == "" {
		return time.Time{}, fmt.Errorf("%s required", key)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return t, nil
}
