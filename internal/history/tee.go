package history

// Appender — приёмник записей истории.
// Реализуется Log и tee-обёрткой для дублирования записей.
type Appender interface {
	Append(r *Record)
}

// tee дублирует каждую запись во все приёмники.
type tee struct {
	sinks []Appender
}

// MultiAppender возвращает Appender, дублирующий записи во все sinks.
//
// Используется для ведения общего журнала сервиса и одновременного
// сбора записей одного прогона: запись попадает в общий журнал в
// момент завершения шага, сохраняя порядок завершения между
// конкурентными прогонами.
func MultiAppender(sinks ...Appender) Appender {
	return &tee{sinks: sinks}
}

// Append добавляет запись во все приёмники.
func (t *tee) Append(r *Record) {
	for _, sink := range t.sinks {
		sink.Append(r)
	}
}
