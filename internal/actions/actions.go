package actions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shaiso/Sequentia/internal/step"
)

// Ошибки встроенных шагов.
var (
	// ErrInvalidConfig — невалидная конфигурация шага.
	ErrInvalidConfig = errors.New("invalid step config")

	// ErrUnknownType — неизвестный тип встроенного шага.
	ErrUnknownType = errors.New("unknown step type")

	// ErrCancelled — выполнение шага отменено.
	ErrCancelled = errors.New("step execution cancelled")
)

// Def — декларативное определение встроенного шага.
//
// Из определений собирается реестр сервиса: тип выбирает фабрику
// действия, конфигурация настраивает его.
type Def struct {
	// ID — уникальный идентификатор шага.
	ID string `json:"id"`

	// Name — отображаемое имя.
	Name string `json:"name"`

	// Type — тип встроенного шага: delay, http, transform, check, generate.
	Type string `json:"type"`

	// Config — конфигурация шага.
	Config map[string]any `json:"config,omitempty"`
}

// Build собирает действие по типу и конфигурации.
func Build(typ string, config map[string]any) (step.Action, error) {
	switch typ {
	case TypeDelay:
		return buildDelay(config)
	case TypeHTTP:
		return buildHTTP(config)
	case TypeTransform:
		return buildTransform(config)
	case TypeCheck:
		return buildCheck(config)
	case TypeGenerate:
		return buildGenerate(config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
}

// Register собирает действия из определений и регистрирует их в реестре.
func Register(reg *step.Registry, defs []Def) error {
	for _, def := range defs {
		action, err := Build(def.Type, def.Config)
		if err != nil {
			return fmt.Errorf("step %q: %w", def.ID, err)
		}
		if err := reg.Register(def.ID, def.Name, action); err != nil {
			return fmt.Errorf("step %q: %w", def.ID, err)
		}
	}
	return nil
}

// LoadDefs читает определения шагов из JSON-файла.
func LoadDefs(path string) ([]Def, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read step defs: %w", err)
	}
	var defs []Def
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse step defs: %w", err)
	}
	return defs, nil
}
