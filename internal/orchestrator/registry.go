package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
)

// Outcome — результат одной завершившейся задачи.
type Outcome struct {
	// TaskID — идентификатор попытки (для корреляции логов).
	TaskID uuid.UUID

	// Unit — WorkUnit завершившейся задачи.
	Unit *account.WorkUnit

	// Endpoint — endpoint, на котором выполнялась попытка.
	Endpoint *endpoint.Endpoint

	// Attempt — номер попытки (начиная с 1).
	Attempt int

	// Err — nil при успехе, иначе причина неудачи.
	Err error
}

// Registry — множество выполняющихся задач.
//
// Spawn запускает задачу независимой горутиной, JoinNext отдаёт
// завершения в порядке их наступления (не в порядке запуска).
// Ошибка одной задачи никогда не затрагивает остальные: она
// фиксируется только в Outcome этой задачи.
type Registry struct {
	results chan Outcome

	mu   sync.Mutex
	size int
}

// NewRegistry создаёт Registry.
//
// capacity — верхняя граница одновременно выполняющихся задач.
// Канал результатов буферизован на capacity, поэтому горутина
// задачи никогда не блокируется на отправке результата.
func NewRegistry(capacity int) *Registry {
	return &Registry{
		results: make(chan Outcome, capacity),
	}
}

// Spawn запускает выполнение step для (unit, ep) отдельной горутиной,
// не блокируя вызывающего. Возвращает идентификатор попытки.
func (r *Registry) Spawn(ctx context.Context, step Step, unit *account.WorkUnit, ep *endpoint.Endpoint, attempt int) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	r.size++
	r.mu.Unlock()

	go func() {
		err := step.Run(ctx, unit, ep)
		r.results <- Outcome{
			TaskID:   id,
			Unit:     unit,
			Endpoint: ep,
			Attempt:  attempt,
			Err:      err,
		}
	}()

	return id
}

// JoinNext блокирует вызывающего до завершения хотя бы одной задачи
// и возвращает её Outcome, удаляя задачу из реестра.
//
// Вызов на пустом реестре — нарушение контракта вызывающей стороны;
// вместо вечной блокировки возвращается ErrRegistryEmpty.
func (r *Registry) JoinNext(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	if r.size == 0 {
		r.mu.Unlock()
		return Outcome{}, ErrRegistryEmpty
	}
	r.mu.Unlock()

	select {
	case out := <-r.results:
		r.mu.Lock()
		r.size--
		r.mu.Unlock()
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Len возвращает количество незавершённых задач.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
