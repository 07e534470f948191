package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
)

// countingStep — Step, падающий по расписанию.
//
// failures[address] задаёт, сколько первых попыток аккаунта падает.
// Дополнительно фиксирует нарушение инварианта "не больше одной
// живой задачи на WorkUnit".
type countingStep struct {
	failures map[string]int
	delay    time.Duration

	mu        sync.Mutex
	attempts  map[string]int
	inFlight  map[string]bool
	duplicate bool
}

func newCountingStep(failures map[string]int) *countingStep {
	return &countingStep{
		failures: failures,
		attempts: make(map[string]int),
		inFlight: make(map[string]bool),
	}
}

func (s *countingStep) Run(ctx context.Context, unit *account.WorkUnit, ep *endpoint.Endpoint) error {
	addr := unit.Address()

	s.mu.Lock()
	if s.inFlight[addr] {
		s.duplicate = true
	}
	s.inFlight[addr] = true
	s.attempts[addr]++
	n := s.attempts[addr]
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.inFlight[addr] = false
	s.mu.Unlock()

	if n <= s.failures[addr] {
		return errors.New("simulated failure")
	}
	return nil
}

func (s *countingStep) total(addr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[addr]
}

func TestOrchestrator_AllSucceed(t *testing.T) {
	units := makeUnits(t, 3)
	step := newCountingStep(nil)

	orch := New(Config{
		Pool:       makePool(t, 1),
		Step:       step,
		SpawnDelay: time.Millisecond,
	})

	stats, err := orch.Run(context.Background(), units)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Succeeded != 3 || stats.Unfinished != 0 {
		t.Errorf("stats = %+v, want 3 succeeded", stats)
	}
	if stats.Resubmissions != 0 {
		t.Errorf("unexpected resubmissions: %d", stats.Resubmissions)
	}
	// Ровно по одной задаче на аккаунт.
	for _, unit := range units {
		if n := step.total(unit.Address()); n != 1 {
			t.Errorf("%s: %d attempts, want 1", unit.Address(), n)
		}
	}
}

func TestOrchestrator_ResubmitsFailed(t *testing.T) {
	units := makeUnits(t, 2)
	// Первая попытка A падает, B всегда успешен.
	step := newCountingStep(map[string]int{
		units[0].Address(): 1,
	})

	orch := New(Config{
		Pool:       makePool(t, 2),
		Step:       step,
		SpawnDelay: time.Millisecond,
	})

	stats, err := orch.Run(context.Background(), units)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if stats.Succeeded != 2 {
		t.Errorf("succeeded = %d, want 2", stats.Succeeded)
	}
	if stats.Resubmissions != 1 {
		t.Errorf("resubmissions = %d, want 1", stats.Resubmissions)
	}
	if n := step.total(units[0].Address()); n != 2 {
		t.Errorf("A attempts = %d, want 2 (1 failure + 1 success)", n)
	}
	if n := step.total(units[1].Address()); n != 1 {
		t.Errorf("B attempts = %d, want 1", n)
	}
}

func TestOrchestrator_UnboundedResubmission(t *testing.T) {
	const k = 5

	units := makeUnits(t, 1)
	step := newCountingStep(map[string]int{
		units[0].Address(): k,
	})

	orch := New(Config{
		Pool:       makePool(t, 1),
		Step:       step,
		SpawnDelay: time.Millisecond,
	})

	stats, err := orch.Run(context.Background(), units)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// k падений, затем успех: ровно k+1 задач.
	if n := step.total(units[0].Address()); n != k+1 {
		t.Errorf("attempts = %d, want %d", n, k+1)
	}
	if stats.Resubmissions != k {
		t.Errorf("resubmissions = %d, want %d", stats.Resubmissions, k)
	}
}

func TestOrchestrator_NoDuplicateLiveTasks(t *testing.T) {
	units := makeUnits(t, 8)

	failures := make(map[string]int)
	for i, unit := range units {
		failures[unit.Address()] = i % 3
	}
	step := newCountingStep(failures)
	step.delay = 5 * time.Millisecond

	orch := New(Config{
		Pool:       makePool(t, 3),
		Step:       step,
		SpawnDelay: time.Millisecond,
	})

	if _, err := orch.Run(context.Background(), units); err != nil {
		t.Fatalf("run: %v", err)
	}

	if step.duplicate {
		t.Error("two live tasks observed for the same work unit")
	}
}

func TestOrchestrator_AdmissionIsPaced(t *testing.T) {
	const delay = 15 * time.Millisecond

	units := makeUnits(t, 3)
	step := newCountingStep(nil)

	orch := New(Config{
		Pool:       makePool(t, 1),
		Step:       step,
		SpawnDelay: delay,
	})

	start := time.Now()
	if _, err := orch.Run(context.Background(), units); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Три первичных допуска с паузой delay каждый.
	if elapsed := time.Since(start); elapsed < 3*delay-time.Millisecond {
		t.Errorf("run finished in %v, admissions not paced", elapsed)
	}
}

func TestOrchestrator_EmptyBatch(t *testing.T) {
	orch := New(Config{
		Pool:       makePool(t, 1),
		Step:       newCountingStep(nil),
		SpawnDelay: time.Millisecond,
	})

	stats, err := orch.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Total != 0 || stats.Succeeded != 0 {
		t.Errorf("stats = %+v, want zeroes", stats)
	}
}

func TestOrchestrator_CooperativeCancel(t *testing.T) {
	units := makeUnits(t, 2)

	// Задачи висят до отмены контекста.
	step := StepFunc(func(ctx context.Context, unit *account.WorkUnit, ep *endpoint.Endpoint) error {
		<-ctx.Done()
		return ctx.Err()
	})

	orch := New(Config{
		Pool:       makePool(t, 1),
		Step:       step,
		SpawnDelay: time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	var stats Stats
	var runErr error
	go func() {
		stats, runErr = orch.Run(ctx, units)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancellation")
	}

	if !errors.Is(runErr, context.DeadlineExceeded) {
		t.Errorf("run error = %v, want deadline exceeded", runErr)
	}
	if stats.Unfinished != 2 {
		t.Errorf("unfinished = %d, want 2", stats.Unfinished)
	}
}
