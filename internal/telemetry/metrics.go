package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики батча. Регистрируются в default registry,
// отдаются через promhttp в cmd/claimer.
var (
	// TasksStarted — сколько попыток (первичных и повторных) было запущено.
	TasksStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claimer_tasks_started_total",
		Help: "Total number of claim task attempts started.",
	})

	// TasksSucceeded — сколько аккаунтов успешно завершили claim+transfer.
	TasksSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claimer_tasks_succeeded_total",
		Help: "Total number of claim tasks that finished successfully.",
	})

	// TasksFailed — сколько попыток завершилось ошибкой (до resubmission).
	TasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claimer_tasks_failed_total",
		Help: "Total number of claim task attempts that failed.",
	})

	// Resubmissions — сколько раз упавшая задача была отправлена повторно.
	Resubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claimer_resubmissions_total",
		Help: "Total number of failed tasks resubmitted with a fresh endpoint.",
	})

	// TasksInFlight — текущее количество выполняющихся задач.
	TasksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "claimer_tasks_in_flight",
		Help: "Number of claim tasks currently executing.",
	})

	// EndpointSelections — распределение выбора endpoint'ов.
	EndpointSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimer_endpoint_selections_total",
		Help: "Number of times each endpoint was selected for a task.",
	}, []string{"endpoint"})
)
