package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shaiso/Sequentia/internal/actions"
	"github.com/shaiso/Sequentia/internal/history"
	"github.com/shaiso/Sequentia/internal/notify"
	"github.com/shaiso/Sequentia/internal/orchestrator"
	"github.com/shaiso/Sequentia/internal/repo"
	"github.com/shaiso/Sequentia/internal/scheduler"
	"github.com/shaiso/Sequentia/internal/step"
	"github.com/shaiso/Sequentia/internal/telemetry"
)

// schedLockKey — ключ advisory lock для leader election.
const schedLockKey int64 = 515151

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting sequentia-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	runRepo := repo.NewRunRepo(pool)
	recordRepo := repo.NewRecordRepo(pool)
	scheduleRepo := repo.NewScheduleRepo(pool)

	// RabbitMQ (опционально)
	var publisher *notify.Publisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		conn, err := notify.NewConnection(url, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events disabled", "error", err)
		} else {
			defer conn.Close()
			if err := notify.SetupTopology(ctx, conn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}
			publisher = notify.NewPublisher(conn, logger)
			logger.Info("connected to rabbitmq")
		}
	}

	// Реестр шагов
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

	orch := orchestrator.New(orchestrator.Config{
		Registry:   registry,
		Log:        history.NewLog(),
		RunRepo:    runRepo,
		RecordRepo: recordRepo,
		Publisher:  publisher,
		Logger:     logger,
	})

	sched := scheduler.New(scheduler.Config{
		ScheduleRepo: scheduleRepo,
		Orchestrator: orch,
		Logger:       logger,
	})

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// scheduler loop
	go func() {
		tk := time.NewTicker(1 * time.Second)
		defer tk.Stop()

		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
			}
		}()

		for {
			select {
			case <-tk.C:
				// пытаемся стать лидером (или подтвердить лидерство)
				if !hasLock {
					var ok bool
					if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&ok); err != nil {
						logger.Error("advisory lock failed", "error", err)
						continue
					}
					hasLock = ok
				}

				if !hasLock {
					// не лидер — пропускаем тик
					continue
				}

				if err := sched.Tick(ctx); err != nil {
					logger.Error("scheduler tick failed", "error", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// serve
	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}

	server := &http.Server{Addr: port, Handler: mux}

	go func() {
		logger.Info("listening", "addr", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
