package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

// Executor выполняет один шаг.
//
// Execute никогда не возвращает error и никогда не паникует:
// отсутствие шага и сбой действия — оба сообщаемые состояния,
// выраженные через Outcome. Решение "прервать или продолжить"
// принимает Runner, а не Executor.
//
// Executor не мутирует Bag вызывающего: вливание выходных данных
// в общий Bag — обязанность Runner'а.
type Executor struct {
	registry *step.Registry
	log      history.Appender
}

// NewExecutor создаёт Executor с явным реестром и журналом.
// Журнал передаётся как Appender: это может быть history.Log или
// history.MultiAppender для дублирования записей.
func NewExecutor(registry *step.Registry, log history.Appender) *Executor {
	return &Executor{
		registry: registry,
		log:      log,
	}
}

// Registry возвращает реестр шагов.
func (e *Executor) Registry() *step.Registry {
	return e.registry
}

// Execute выполняет шаг с указанным ID.
//
// На каждый вызов в журнал добавляется ровно одна запись,
// независимо от исхода:
//   - шаг не найден — неуспешный Outcome "step '<id>' not found",
//     действие не вызывается;
//   - действие вернуло Outcome — используется как есть;
//   - действие вернуло error (или запаниковало) — синтезируется
//     неуспешный Outcome с AbortOnFailure=true, исходная ошибка
//     сохраняется в записи истории.
func (e *Executor) Execute(ctx context.Context, id string, bag *params.Bag) *step.Outcome {
	s, err := e.registry.Get(id)
	if err != nil {
		outcome := step.NewFailure(fmt.Sprintf("step '%s' not found", id))
		rec := history.NewRecord(id, "", bag.Snapshot())
		rec.Finalize(outcome, nil)
		e.log.Append(rec)
		return outcome
	}

	rec := history.NewRecord(s.ID, s.Name, bag.Snapshot())

	outcome, actionErr := runAction(ctx, s.Action, bag)
	switch {
	case actionErr != nil:
		// Неожиданный сбой: шаг не успел выразить мягкую политику,
		// поэтому такой Outcome всегда прерывает последовательность.
		outcome = step.NewFailure(actionErr.Error())
	case outcome == nil:
		actionErr = ErrNilOutcome
		outcome = step.NewFailure(ErrNilOutcome.Error())
	}

	rec.Finalize(outcome, actionErr)
	e.log.Append(rec)
	return outcome
}

// runAction вызывает действие, перехватывая паники.
// Действия — произвольный пользовательский код; паника приравнивается
// к возврату ошибки и не выходит за границу Executor'а.
func runAction(ctx context.Context, action step.Action, bag *params.Bag) (outcome *step.Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			outcome = nil
			err = fmt.Errorf("%w: %v", ErrActionPanic, p)
		}
	}()
	return action(ctx, bag)
}

// ErrNilOutcome — действие завершилось без Outcome и без ошибки.
var ErrNilOutcome = errors.New("action returned nil outcome")

// ErrActionPanic — действие запаниковало.
var ErrActionPanic = errors.New("action panicked")
