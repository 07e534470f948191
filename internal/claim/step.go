package claim

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/dogmatiq/linger"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
	"github.com/Fragment-Software/scroll-bye-bye/internal/proof"
	"github.com/Fragment-Software/scroll-bye-bye/internal/telemetry"
)

// Default configuration values.
const defaultSettleDelay = 500 * time.Millisecond

// ChainClient — операции distributor- и token-контрактов.
//
// Реализация: chain.Client. В тестах подменяется фейком.
type ChainClient interface {
	HasClaimed(ctx context.Context, ep *endpoint.Endpoint, address string) (bool, error)
	BalanceOf(ctx context.Context, ep *endpoint.Endpoint, address string) (*big.Int, error)
	Claim(ctx context.Context, ep *endpoint.Endpoint, key *account.Key, amount *big.Int, merkleProof []string) error
	Transfer(ctx context.Context, ep *endpoint.Endpoint, key *account.Key, to string, amount *big.Int) error
}

// ProofSource — источник аллокации и merkle proof аккаунта.
//
// Реализация: proof.Client.
type ProofSource interface {
	Allocation(ctx context.Context, address string) (*proof.Allocation, error)
}

// Step — workflow одной задачи: eligibility → claim → transfer.
//
// Step идемпотентен по состоянию eligibility: если аккаунт уже
// получил аллокацию (в прошлой попытке или вообще), claim
// пропускается и переводится текущий баланс. Поэтому оркестратор
// может перезапускать Step сколько угодно раз.
type Step struct {
	chain       ChainClient
	proofs      ProofSource
	settleDelay time.Duration
	logger      *slog.Logger
}

// Config — конфигурация Step.
type Config struct {
	// Chain — клиент контрактов (обязателен).
	Chain ChainClient

	// Proofs — клиент proof API (обязателен).
	Proofs ProofSource

	// SettleDelay — пауза между подтверждением claim и transfer,
	// чтобы баланс успел отразиться (default: 500ms).
	SettleDelay time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Step.
func New(cfg Config) *Step {
	settleDelay := cfg.SettleDelay
	if settleDelay <= 0 {
		settleDelay = defaultSettleDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Step{
		chain:       cfg.Chain,
		proofs:      cfg.Proofs,
		settleDelay: settleDelay,
		logger:      logger,
	}
}

// Run выполняет workflow для одного WorkUnit на выбранном endpoint'е.
func (s *Step) Run(ctx context.Context, unit *account.WorkUnit, ep *endpoint.Endpoint) error {
	address := unit.Address()
	log := telemetry.WithEndpoint(telemetry.WithAccount(s.logger, address), ep.Name())

	claimed, err := s.chain.HasClaimed(ctx, ep, address)
	if err != nil {
		return fmt.Errorf("check claim status: %w", err)
	}

	var amount *big.Int
	if claimed {
		// Аллокация уже получена (возможно, прошлой попыткой) —
		// доводим до конца только transfer.
		amount, err = s.chain.BalanceOf(ctx, ep, address)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
	} else {
		alloc, err := s.proofs.Allocation(ctx, address)
		if err != nil {
			return fmt.Errorf("fetch allocation: %w", err)
		}

		log.Info("claiming", "amount", alloc.Amount)
		if err := s.chain.Claim(ctx, ep, unit.Key, alloc.Amount, alloc.Proof); err != nil {
			return fmt.Errorf("claim: %w", err)
		}

		// Пауза, чтобы баланс успел отразиться после claim'а.
		if err := linger.Sleep(ctx, s.settleDelay); err != nil {
			return err
		}

		amount = alloc.Amount
	}

	if amount.Sign() == 0 {
		log.Info("zero allocation, nothing to transfer")
		return nil
	}

	log.Info("transferring", "amount", amount, "recipient", unit.Recipient)
	if err := s.chain.Transfer(ctx, ep, unit.Key, unit.Recipient, amount); err != nil {
		return fmt.Errorf("transfer: %w", err)
	}

	return nil
}
