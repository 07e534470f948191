package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
	"github.com/Fragment-Software/scroll-bye-bye/internal/telemetry"
)

// Default configuration values.
const defaultSpawnDelay = 500 * time.Millisecond

// Orchestrator разгоняет батч: по одной независимой задаче
// на каждый WorkUnit поверх пула endpoint'ов.
//
// Orchestrator:
//   - Допускает задачи по одной, с паузой между стартами (Throttle)
//   - Привязывает каждую задачу к случайному endpoint'у
//   - Снимает завершения в порядке их наступления (Registry)
//   - Перезапускает упавшие задачи на свежем endpoint'е,
//     без паузы и без ограничения числа попыток
//   - Завершается только когда каждый WorkUnit успешен
type Orchestrator struct {
	pool       *endpoint.Pool
	step       Step
	spawnDelay time.Duration
	logger     *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Pool — пул endpoint'ов (обязателен).
	Pool *endpoint.Pool

	// Step — операция одной задачи (обязательна).
	Step Step

	// SpawnDelay — пауза между первичными допусками (default: 500ms).
	SpawnDelay time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	spawnDelay := cfg.SpawnDelay
	if spawnDelay <= 0 {
		spawnDelay = defaultSpawnDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		pool:       cfg.Pool,
		step:       cfg.Step,
		spawnDelay: spawnDelay,
		logger:     logger,
	}
}

// Stats — итог одного запуска батча.
type Stats struct {
	// Total — количество WorkUnits на входе.
	Total int

	// Succeeded — сколько из них дошло до успеха.
	Succeeded int

	// Resubmissions — сколько раз упавшие задачи перезапускались.
	Resubmissions int

	// Unfinished — сколько WorkUnits осталось без успеха
	// (ненулевое только при отмене контекста).
	Unfinished int
}

// Run выполняет батч до конца: каждый WorkUnit должен завершиться
// успехом хотя бы один раз. Глобального таймаута нет — при вечно
// падающем аккаунте цикл крутится бесконечно, не блокируя остальных.
//
// Отмена контекста кооперативна: новые первичные допуски и
// resubmission прекращаются, выполняющиеся задачи дожидаются,
// после чего Run возвращает ошибку контекста.
func (o *Orchestrator) Run(ctx context.Context, units []*account.WorkUnit) (Stats, error) {
	stats := Stats{Total: len(units)}
	if len(units) == 0 {
		o.logger.Info("nothing to do, no work units")
		return stats, nil
	}

	o.logger.Info("starting batch",
		"units", len(units),
		"endpoints", o.pool.Len(),
		"spawn_delay", o.spawnDelay,
	)

	// Инвариант: у каждого WorkUnit не больше одной живой задачи,
	// поэтому len(units) — верхняя граница размера реестра.
	registry := NewRegistry(len(units))
	throttle := NewThrottle(o.spawnDelay)

	// Fill: первичные допуски строго по порядку и с паузой.
	// Завершений здесь не ждём — допуск отвязан от завершения.
	admitted := 0
	for _, unit := range units {
		if err := throttle.Wait(ctx); err != nil {
			o.logger.Warn("admission interrupted",
				"admitted", admitted,
				"remaining", len(units)-admitted,
			)
			break
		}
		o.spawn(ctx, registry, unit, 1)
		admitted++
	}

	// Drain: снимаем завершения в произвольном порядке,
	// упавшие задачи немедленно перезапускаем.
	for registry.Len() > 0 {
		out, err := registry.JoinNext(ctx)
		if err != nil {
			if errors.Is(err, ErrRegistryEmpty) {
				break
			}
			// Контекст отменён во время ожидания: дожидаемся
			// оставшихся задач без resubmission.
			o.drainRemaining(registry, &stats)
			break
		}

		telemetry.TasksInFlight.Dec()
		log := telemetry.WithTask(
			telemetry.WithAccount(o.logger, out.Unit.Address()),
			out.TaskID.String(), out.Attempt,
		)

		if out.Err != nil {
			telemetry.TasksFailed.Inc()
			log.Error("task failed",
				"endpoint", out.Endpoint.Name(),
				"error", out.Err,
			)

			if ctx.Err() != nil {
				continue
			}

			// Свежий endpoint вместо только что сбойнувшего,
			// без паузы и без ограничения попыток.
			o.spawn(ctx, registry, out.Unit, out.Attempt+1)
			telemetry.Resubmissions.Inc()
			stats.Resubmissions++
			continue
		}

		telemetry.TasksSucceeded.Inc()
		stats.Succeeded++
		log.Info("claimed and transferred",
			"recipient", out.Unit.Recipient,
			"progress", stats.Succeeded,
			"total", stats.Total,
		)
	}

	stats.Unfinished = stats.Total - stats.Succeeded

	if err := ctx.Err(); err != nil {
		o.logger.Warn("batch interrupted",
			"succeeded", stats.Succeeded,
			"unfinished", stats.Unfinished,
		)
		return stats, err
	}

	o.logger.Info("batch finished",
		"succeeded", stats.Succeeded,
		"resubmissions", stats.Resubmissions,
	)
	return stats, nil
}

// spawn допускает одну попытку: случайный endpoint + запуск в реестре.
func (o *Orchestrator) spawn(ctx context.Context, registry *Registry, unit *account.WorkUnit, attempt int) {
	ep := o.pool.Select()
	id := registry.Spawn(ctx, o.step, unit, ep, attempt)

	telemetry.TasksStarted.Inc()
	telemetry.TasksInFlight.Inc()
	telemetry.EndpointSelections.WithLabelValues(ep.Name()).Inc()

	o.logger.Debug("task started",
		"task_id", id,
		"account", unit.Address(),
		"endpoint", ep.Name(),
		"attempt", attempt,
	)
}

// drainRemaining дожидается выполняющихся задач после отмены
// контекста. Задачи получили отменённый контекст и завершатся
// сами; их исходы учитываются, но resubmission не происходит.
func (o *Orchestrator) drainRemaining(registry *Registry, stats *Stats) {
	for registry.Len() > 0 {
		out, err := registry.JoinNext(context.Background())
		if err != nil {
			return
		}

		telemetry.TasksInFlight.Dec()
		if out.Err != nil {
			telemetry.TasksFailed.Inc()
			continue
		}
		telemetry.TasksSucceeded.Inc()
		stats.Succeeded++
	}
}
