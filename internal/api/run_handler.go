package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shaiso/Sequentia/internal/domain"
	"github.com/shaiso/Sequentia/internal/orchestrator"
	"github.com/shaiso/Sequentia/internal/params"
	"github.com/shaiso/Sequentia/internal/repo"
)

// ListRuns возвращает список прогонов с фильтрацией.
// GET /api/v1/runs?status=...&limit=...&offset=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil {
		Unavailable(w, "run archive is not configured")
		return
	}

	filter := repo.RunFilter{}

	// Парсим query параметры
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.RunStatus(status)
	}

	filter.Limit = parseIntOr(r.URL.Query().Get("limit"), 50)
	filter.Offset = parseIntOr(r.URL.Query().Get("offset"), 0)

	runs, err := h.runRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i := range runs {
		result[i] = RunFromDomain(&runs[i])
	}

	List(w, result, len(result))
}

// CreateRun запускает последовательность шагов.
// POST /api/v1/runs
//
// По умолчанию выполняется синхронно: ответ содержит финальное
// состояние прогона и записи истории. С async=true прогон
// выполняется в фоне, ответ 202 с прогоном в статусе PENDING.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if len(req.StepIDs) == 0 {
		BadRequest(w, "step_ids is required")
		return
	}

	bag, err := params.FromMap(req.Params)
	if err != nil {
		BadRequest(w, "invalid params: "+err.Error())
		return
	}

	if req.Async {
		run := h.orch.PrepareRun(r.Context(), req.StepIDs, bag)
		// Прогон переживает HTTP-запрос
		go h.orch.Execute(context.Background(), run)
		Accepted(w, RunFromDomain(run))
		return
	}

	res := h.orch.ExecuteRun(r.Context(), req.StepIDs, bag)
	Success(w, RunDetailResponse{
		RunResponse: RunFromDomain(res.Run),
		Records:     res.Records,
	})
}

// GetRun возвращает прогон по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil {
		Unavailable(w, "run archive is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.runRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(run))
}

// CancelRun отменяет прогон в полёте.
// POST /api/v1/runs/{id}/cancel
func (h *Handler) CancelRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	if err := h.orch.CancelRun(id); err != nil {
		if errors.Is(err, orchestrator.ErrRunNotActive) {
			InvalidState(w, "run is not active")
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// ListRunRecords возвращает записи истории прогона.
// GET /api/v1/runs/{id}/records
func (h *Handler) ListRunRecords(w http.ResponseWriter, r *http.Request) {
	if h.runRepo == nil || h.recordRepo == nil {
		Unavailable(w, "run archive is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	// Проверяем, что прогон существует
	_, err = h.runRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	records, err := h.recordRepo.ListByRun(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	List(w, records, len(records))
}

// parseIntOr парсит строку в int с дефолтным значением.
func parseIntOr(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return n
}
