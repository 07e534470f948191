package main

import (
	"context"
	"math/big"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/chain"
	"github.com/Fragment-Software/scroll-bye-bye/internal/config"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
	"github.com/Fragment-Software/scroll-bye-bye/internal/proof"
	"github.com/Fragment-Software/scroll-bye-bye/internal/telemetry"
)

// newCheckCmd создаёт команду проверки eligibility.
//
// Ни одной транзакции не отправляется: для каждого аккаунта
// запрашивается статус claim'а и аллокация.
func newCheckCmd(configFn func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check eligibility without sending transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.SetupLogger()

			cfg, err := configFn()
			if err != nil {
				return err
			}

			units, err := account.Load(cfg.PrivateKeysFile, cfg.RecipientsFile)
			if err != nil {
				return err
			}

			pool, err := endpoint.NewPool(cfg.RPCURLs, endpoint.Config{
				Retries: cfg.RPCRetries,
				Backoff: cfg.RPCBackoff(),
			})
			if err != nil {
				return err
			}

			client := chain.New(chain.Config{
				Distributor: cfg.DistributorAddress,
				Token:       cfg.TokenAddress,
				Logger:      logger,
			})

			proofs := proof.New(proof.Config{
				URL:     cfg.ProofURL,
				Retries: cfg.ProofRetries,
				Backoff: cfg.ProofBackoff(),
				Logger:  logger,
			})

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			eligible := 0
			total := new(big.Int)

			for _, unit := range units {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				address := unit.Address()
				log := telemetry.WithAccount(logger, address)
				ep := pool.Select()

				claimed, err := client.HasClaimed(ctx, ep, address)
				if err != nil {
					log.Warn("check failed", "endpoint", ep.Name(), "error", err)
					continue
				}

				if claimed {
					log.Info("already claimed")
					continue
				}

				alloc, err := proofs.Allocation(ctx, address)
				if err != nil {
					log.Warn("allocation lookup failed", "error", err)
					continue
				}

				log.Info("eligible", "amount", alloc.Amount)
				eligible++
				total.Add(total, alloc.Amount)
			}

			logger.Info("check finished",
				"accounts", len(units),
				"eligible", eligible,
				"total_amount", total,
			)
			return nil
		},
	}
}
