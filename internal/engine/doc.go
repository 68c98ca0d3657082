// Package engine содержит движок выполнения последовательностей шагов.
//
// # Executor
//
// Executor выполняет один шаг: разрешает его через реестр, вызывает
// действие с общим Bag, замеряет продолжительность, классифицирует
// исход и добавляет ровно одну запись в журнал истории. Execute
// никогда не возвращает error: отсутствие шага и сбой действия —
// сообщаемые состояния, выраженные через Outcome.
//
// # Runner
//
// Runner выполняет упорядоченный список ID шагов против одного Bag,
// вливая выходные данные каждого шага в Bag перед следующим и
// применяя политику прерывания: первый неуспешный Outcome с
// AbortOnFailure=true останавливает прогон, результат возвращается
// частичным.
//
// # Разделение ответственности
//
//   - Executor: замер времени, классификация исхода, запись истории.
//     Bag вызывающего не мутирует.
//   - Runner: порядок, вливание выходных данных, политика прерывания.
//
// Типичное использование:
//
//	reg := step.NewRegistry()
//	reg.Register("login", "Вход", loginAction)
//	log := history.NewLog()
//	runner := engine.NewRunner(engine.NewExecutor(reg, log))
//
//	bag := params.NewBag()
//	result := runner.RunSequence(ctx, []string{"login", "checkout"}, bag)
//	if !result.OK() {
//	    i, failure := result.FirstFailure()
//	    // журнал истории объясняет, где и почему прогон остановился
//	}
package engine
