package api

import (
	"log/slog"

	"github.com/shaiso/Sequentia/internal/orchestrator"
	"github.com/shaiso/Sequentia/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	orch         *orchestrator.Orchestrator
	runRepo      *repo.RunRepo
	recordRepo   *repo.RecordRepo
	scheduleRepo *repo.ScheduleRepo
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Orchestrator *orchestrator.Orchestrator
	RunRepo      *repo.RunRepo
	RecordRepo   *repo.RecordRepo
	ScheduleRepo *repo.ScheduleRepo
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		orch:         cfg.Orchestrator,
		runRepo:      cfg.RunRepo,
		recordRepo:   cfg.RecordRepo,
		scheduleRepo: cfg.ScheduleRepo,
		logger:       cfg.Logger,
	}
}
