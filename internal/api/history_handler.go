package api

import (
	"net/http"
)

// ListHistory возвращает последние записи общего журнала истории.
// GET /api/v1/history?limit=...
//
// Журнал — источник правды о выполненных шагах текущего процесса:
// записи идут в порядке завершения, независимо от прогона.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	log := h.orch.History()

	limit := parseIntOr(r.URL.Query().Get("limit"), 0)
	if limit > 0 {
		records := log.Recent(limit)
		List(w, records, len(records))
		return
	}

	records := log.All()
	List(w, records, len(records))
}

// ClearHistory очищает общий журнал истории.
// DELETE /api/v1/history
//
// Архив в PostgreSQL не затрагивается.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.orch.History().Clear()
	NoContent(w)
}
