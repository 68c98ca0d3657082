package actions

import (
	"context"
	"fmt"
	"sort"

	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/render"
	"github.com/shaiso/Sequentia/internal/step"
)

const (
	// TypeTransform — тип шага трансформации.
	TypeTransform = "transform"

	configMappings = "mappings"
)

// Transform возвращает действие, вычисляющее новые параметры из
// уже накопленных через Go templates.
//
// Каждый mapping рендерится по текущему Bag и попадает в выходные
// данные шага под своим ключом:
//
//	{"mappings": {"greeting": "hello {{ .Params.user }}"}}
func Transform(mappings map[string]string) step.Action {
	return func(ctx context.Context, bag *params.Bag) (*step.Outcome, error) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		tmplCtx := render.NewContext(bag)
		output := params.NewBag()

		// Детерминированный порядок вычисления и вставки
		keys := make([]string, 0, len(mappings))
		for key := range mappings {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			rendered, err := render.Render(mappings[key], tmplCtx)
			if err != nil {
				return nil, fmt.Errorf("mapping %q: %w", key, err)
			}
			output.SetString(key, rendered)
		}

		return step.NewSuccess(fmt.Sprintf("transformed %d values", len(keys))).
			WithOutput(output), nil
	}
}

// buildTransform собирает действие transform из конфигурации.
func buildTransform(config map[string]any) (step.Action, error) {
	mappings := GetConfigMapString(config, configMappings)
	if len(mappings) == 0 {
		return nil, fmt.Errorf("%w: %s: mappings required", ErrInvalidConfig, TypeTransform)
	}
	return Transform(mappings), nil
}
