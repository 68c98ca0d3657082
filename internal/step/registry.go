package step

import (
	"fmt"
	"sort"
	"sync"
)

// Registry — реестр шагов.
//
// Явный объект, передаваемый Executor'у при создании: никакого
// глобального состояния, изолированные реестры в тестах.
// Потокобезопасен: register может гоняться с get/list из других
// горутин, доступ сериализуется RWMutex.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]*Step
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]*Step),
	}
}

// Register регистрирует шаг под указанным ID.
// Если шаг с таким ID уже существует, он будет перезаписан —
// это намеренная семантика переопределения (последняя запись побеждает).
func (r *Registry) Register(id, name string, action Action) error {
	if id == "" {
		return ErrEmptyStepID
	}
	if action == nil {
		return fmt.Errorf("%w: %s", ErrNilAction, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[id] = &Step{ID: id, Name: name, Action: action}
	return nil
}

// Get возвращает шаг по ID.
// Возвращает ErrStepNotFound, если шаг не зарегистрирован:
// отсутствие шага — восстановимое состояние, а не фатальная ошибка.
func (r *Registry) Get(id string) (*Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.steps[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, id)
	}
	return s, nil
}

// Has проверяет, зарегистрирован ли шаг.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.steps[id]
	return exists
}

// List возвращает снимок всех зарегистрированных шагов.
// Копия, а не живое представление: мутации реестра после вызова
// не видны в результате.
func (r *Registry) List() map[string]*Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]*Step, len(r.steps))
	for id, s := range r.steps {
		snapshot[id] = s
	}
	return snapshot
}

// IDs возвращает отсортированный список ID зарегистрированных шагов.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.steps))
	for id := range r.steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count возвращает количество зарегистрированных шагов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// Unregister удаляет шаг из реестра.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.steps, id)
}
