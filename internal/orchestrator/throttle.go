package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/dogmatiq/linger"
)

// Throttle задаёт минимальный интервал между стартами задач.
//
// Это не token bucket: допуски строго сериализуются, и между
// release'ами соседних вызовов Wait проходит не меньше interval.
// Применяется только к первичным допускам — resubmission идёт
// мимо throttle.
type Throttle struct {
	interval time.Duration

	mu      sync.Mutex
	release time.Time
}

// NewThrottle создаёт Throttle. Первый Wait тоже ждёт полный
// интервал, как и последующие.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		release:  time.Now(),
	}
}

// Wait блокирует вызывающего до своего release-момента:
// interval после release предыдущего вызова.
//
// Отмена контекста просто прерывает ожидание, частичных
// эффектов нет.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	next := t.release.Add(t.interval)
	if now := time.Now(); next.Before(now) {
		next = now
	}
	t.release = next
	t.mu.Unlock()

	return linger.SleepUntil(ctx, next)
}
