package engine

import (
	"context"

	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/step"
)

// SequenceResult — упорядоченный список результатов прогона:
// по одному Outcome на каждый запущенный шаг. Короче запрошенного
// списка, если прогон прервался досрочно.
type SequenceResult []*step.Outcome

// OK возвращает true, если все шаги завершились успешно.
func (r SequenceResult) OK() bool {
	for _, o := range r {
		if !o.Success {
			return false
		}
	}
	return true
}

// FirstFailure возвращает индекс и Outcome первого неуспешного шага.
// Возвращает -1 и nil, если неудач не было.
func (r SequenceResult) FirstFailure() (int, *step.Outcome) {
	for i, o := range r {
		if !o.Success {
			return i, o
		}
	}
	return -1, nil
}

// Aborted возвращает true, если прогон остановился на прерывающей
// неудаче (последний Outcome неуспешен и требует прерывания).
func (r SequenceResult) Aborted() bool {
	if len(r) == 0 {
		return false
	}
	return r[len(r)-1].ShouldAbort()
}

// Runner выполняет упорядоченную последовательность шагов против
// одного общего Bag.
//
// Выполнение строго последовательное: шаг N+1 обязан видеть мутации
// Bag, сделанные шагом N, поэтому Runner никогда не запускает два
// шага одного прогона конкурентно. Конкурентность существует только
// между независимыми прогонами.
type Runner struct {
	executor *Executor
}

// NewRunner создаёт Runner поверх Executor'а.
func NewRunner(executor *Executor) *Runner {
	return &Runner{executor: executor}
}

// Executor возвращает используемый Executor.
func (r *Runner) Executor() *Executor {
	return r.executor
}

// RunSequence выполняет шаги в заданном порядке.
//
// После каждого шага выходные данные Outcome вливаются в bag
// (при совпадении ключей новые значения перезаписывают старые),
// так что следующие шаги видят результаты предыдущих.
//
// Прогон останавливается на первом Outcome с Success=false и
// AbortOnFailure=true; результат возвращается как есть (частичный).
// Успешный Outcome не прерывает прогон независимо от флага.
//
// Пустой список шагов — не ошибка: пустой результат, ни одного
// вызова и ни одной записи в истории. Дублирующиеся ID легальны:
// каждое вхождение выполняется заново со своей записью в истории.
//
// Отмена ctx доходит до действия текущего шага; отменённый шаг
// возвращает неуспешный Outcome и по умолчанию прерывает остаток
// последовательности.
func (r *Runner) RunSequence(ctx context.Context, stepIDs []string, bag *params.Bag) SequenceResult {
	if bag == nil {
		bag = params.NewBag()
	}

	result := make(SequenceResult, 0, len(stepIDs))
	for _, id := range stepIDs {
		outcome := r.executor.Execute(ctx, id, bag)
		result = append(result, outcome)

		if outcome.Output != nil {
			bag.Merge(outcome.Output)
		}

		if outcome.ShouldAbort() {
			break
		}
	}
	return result
}
