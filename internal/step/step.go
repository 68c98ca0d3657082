package step

import (
	"context"

	"github.com/shaiso/Sequentia/internal/params"
)

// Action — исполняемое действие шага.
//
// Действие получает общий Bag прогона и возвращает Outcome.
// Два способа сообщить о проблеме:
//   - вернуть Outcome с Success=false — ожидаемая, "мягкая" неудача,
//     шаг сам выбирает политику прерывания через AbortOnFailure;
//   - вернуть error — неожиданный сбой; Executor преобразует его
//     в Outcome с AbortOnFailure=true и сохранит ошибку в записи истории.
//
// Действие обязано проверять ctx.Done() в блокирующих местах:
// отмена контекста — единственный способ остановить шаг снаружи.
type Action func(ctx context.Context, bag *params.Bag) (*Outcome, error)

// Step — именованный зарегистрированный шаг.
//
// После регистрации шаг принадлежит реестру и не изменяется;
// повторная регистрация с тем же ID заменяет шаг целиком.
type Step struct {
	// ID — уникальный идентификатор шага.
	ID string

	// Name — отображаемое имя шага.
	Name string

	// Action — действие шага.
	Action Action
}
