package orchestrator

import (
	"context"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
)

// Step — внешняя эффектная операция одной задачи
// (проверка eligibility → claim → transfer).
//
// С точки зрения оркестратора операция атомарна: либо полностью
// успешна, либо вернула ошибку. Реализация обязана быть идемпотентной
// по состоянию eligibility — оркестратор вызывает её повторно после
// каждой неудачи, и повторный claim уже получившего аккаунта должен
// быть no-op, а не double-spend.
type Step interface {
	Run(ctx context.Context, unit *account.WorkUnit, ep *endpoint.Endpoint) error
}

// StepFunc — адаптер функции к интерфейсу Step.
type StepFunc func(ctx context.Context, unit *account.WorkUnit, ep *endpoint.Endpoint) error

// Run реализует Step.
func (f StepFunc) Run(ctx context.Context, unit *account.WorkUnit, ep *endpoint.Endpoint) error {
	return f(ctx, unit, ep)
}
