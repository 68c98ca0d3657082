package history

import "sync"

// Log — append-only журнал записей о выполнении шагов.
//
// Журнал — единственный ресурс, разделяемый между независимыми
// прогонами, поэтому доступ защищён мьютексом: порядок записей
// отражает порядок завершения Append.
//
// Журнал растёт неограниченно; память ограничивается только явным
// Clear() между тестовыми прогонами.
type Log struct {
	mu      sync.Mutex
	records []*Record
}

// NewLog создаёт пустой журнал.
func NewLog() *Log {
	return &Log{}
}

// Append добавляет запись в конец журнала.
func (l *Log) Append(r *Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// All возвращает снимок всех записей в порядке добавления
// (от старых к новым).
func (l *Log) All() []*Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := make([]*Record, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

// Recent возвращает последние n записей в порядке добавления.
// Если n превышает длину журнала, возвращается весь журнал.
func (l *Log) Recent(n int) []*Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 {
		return nil
	}
	if n > len(l.records) {
		n = len(l.records)
	}
	snapshot := make([]*Record, n)
	copy(snapshot, l.records[len(l.records)-n:])
	return snapshot
}

// Clear очищает журнал.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Len возвращает количество записей.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
