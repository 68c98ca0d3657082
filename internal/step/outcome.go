package step

import (
	"github.com/shaiso/Sequentia/internal/params"
)

// Outcome — результат одного вызова шага.
//
// Outcome создаётся через конструкторы NewSuccess / NewFailure:
// они устанавливают AbortOnFailure=true по умолчанию. Шаг, чья
// неудача не должна прерывать последовательность, вызывает
// ContinueOnFailure().
type Outcome struct {
	// Success — успешность выполнения.
	Success bool `json:"success"`

	// Message — человекочитаемое сообщение о результате.
	Message string `json:"message"`

	// Output — выходные данные шага.
	// Runner вливает их в общий Bag прогона, чтобы следующие шаги
	// видели результаты этого шага.
	Output *params.Bag `json:"output,omitempty"`

	// Artifacts — ссылки на прикреплённые артефакты
	// (например, пути к снимкам экрана).
	Artifacts []string `json:"artifacts,omitempty"`

	// AbortOnFailure — прерывать ли последовательность при неудаче.
	// Учитывается только когда Success=false: успешный Outcome
	// никогда не прерывает прогон независимо от этого флага.
	AbortOnFailure bool `json:"abort_on_failure"`
}

// NewSuccess создаёт успешный Outcome.
func NewSuccess(message string) *Outcome {
	return &Outcome{
		Success:        true,
		Message:        message,
		AbortOnFailure: true,
	}
}

// NewFailure создаёт неуспешный Outcome.
// По умолчанию неудача прерывает последовательность.
func NewFailure(message string) *Outcome {
	return &Outcome{
		Success:        false,
		Message:        message,
		AbortOnFailure: true,
	}
}

// WithOutput добавляет выходные данные.
func (o *Outcome) WithOutput(output *params.Bag) *Outcome {
	o.Output = output
	return o
}

// WithArtifact прикрепляет ссылку на артефакт.
func (o *Outcome) WithArtifact(ref string) *Outcome {
	o.Artifacts = append(o.Artifacts, ref)
	return o
}

// ContinueOnFailure разрешает последовательности продолжиться
// после неудачи этого шага.
func (o *Outcome) ContinueOnFailure() *Outcome {
	o.AbortOnFailure = false
	return o
}

// ShouldAbort возвращает true, если прогон должен остановиться
// после этого Outcome.
func (o *Outcome) ShouldAbort() bool {
	return !o.Success && o.AbortOnFailure
}
