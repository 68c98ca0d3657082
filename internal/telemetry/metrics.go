package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики выполнения последовательностей.
var (
	// RunsTotal — счётчик завершённых прогонов по статусу.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sequentia_runs_total",
		Help: "Total sequence runs by final status",
	}, []string{"status"})

	// StepsTotal — счётчик выполненных шагов по исходу.
	StepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sequentia_steps_total",
		Help: "Total step executions by outcome",
	}, []string{"step_id", "success"})

	// StepDuration — гистограмма продолжительности шагов.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sequentia_step_duration_seconds",
		Help:    "Step execution duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"step_id"})

	// RunDuration — гистограмма продолжительности прогонов.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sequentia_run_duration_seconds",
		Help:    "Sequence run duration",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveStep учитывает один выполненный шаг.
func ObserveStep(stepID string, success bool, duration time.Duration) {
	successLabel := "false"
	if success {
		successLabel = "true"
	}
	StepsTotal.WithLabelValues(stepID, successLabel).Inc()
	StepDuration.WithLabelValues(stepID).Observe(duration.Seconds())
}

// ObserveRun учитывает один завершённый прогон.
func ObserveRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}
