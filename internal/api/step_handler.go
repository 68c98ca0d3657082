package api

import (
	"net/http"
)

// ListSteps возвращает список зарегистрированных шагов.
// GET /api/v1/steps
func (h *Handler) ListSteps(w http.ResponseWriter, r *http.Request) {
	registry := h.orch.Registry()

	// IDs отсортированы — ответ детерминирован
	ids := registry.IDs()
	result := make([]StepResponse, 0, len(ids))
	for _, id := range ids {
		s, err := registry.Get(id)
		if err != nil {
			continue
		}
		result = append(result, StepFromDomain(s))
	}

	List(w, result, len(result))
}
