package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shaiso/Sequentia/internal/actions"
	"github.com/shaiso/Sequentia/internal/api"
	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/notify"
	"github.com/shaiso/Sequentia/internal/orchestrator"
	"github.com/shaiso/Sequentia/internal/repo"
	"github.com/shaiso/Sequentia/internal/step"
	"github.com/shaiso/Sequentia/internal/telemetry"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sequentia_api_http_requests_total",
		Help: "Total HTTP requests handled by sequentia_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting sequentia-api")

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Создаём репозитории
	runRepo := repo.NewRunRepo(pool)
	recordRepo := repo.NewRecordRepo(pool)
	scheduleRepo := repo.NewScheduleRepo(pool)

	// Подключаемся к RabbitMQ (опционально)
	var publisher *notify.Publisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		conn, err := notify.NewConnection(url, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events disabled", "error", err)
		} else {
			defer conn.Close()
			if err := notify.SetupTopology(context.Background(), conn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			publisher = notify.NewPublisher(conn, logger)
			logger.Info("connected to rabbitmq")
		}
	}

	// Наполняем реестр шагов из файла определений
	registry := step.NewRegistry()
	stepsFile := os.Getenv("STEPS_FILE")
	if stepsFile == "" {
		stepsFile = "steps.json"
	}
	if defs, err := actions.LoadDefs(stepsFile); err != nil {
		logger.Warn("steps file not loaded, registry is empty", "path", stepsFile, "error", err)
	} else {
		if err := actions.Register(registry, defs); err != nil {
			logger.Error("failed to register steps", "error", err)
			os.Exit(1)
		}
		logger.Info("steps registered", "count", registry.Count())
	}

	// Собираем orchestrator
	orch := orchestrator.New(orchestrator.Config{
		Registry:   registry,
		Log:        history.NewLog(),
		RunRepo:    runRepo,
		RecordRepo: recordRepo,
		Publisher:  publisher,
		Logger:     logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Orchestrator: orch,
		RunRepo:      runRepo,
		RecordRepo:   recordRepo,
		ScheduleRepo: scheduleRepo,
		Logger:       logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
