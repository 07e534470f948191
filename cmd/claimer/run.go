package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/chain"
	"github.com/Fragment-Software/scroll-bye-bye/internal/claim"
	"github.com/Fragment-Software/scroll-bye-bye/internal/config"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
	"github.com/Fragment-Software/scroll-bye-bye/internal/orchestrator"
	"github.com/Fragment-Software/scroll-bye-bye/internal/proof"
	"github.com/Fragment-Software/scroll-bye-bye/internal/telemetry"
)

// newRunCmd создаёт команду запуска батча.
func newRunCmd(configFn func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the batch until every account succeeds",
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

			step := claim.New(claim.Config{
				Chain: chain.New(chain.Config{
					Distributor: cfg.DistributorAddress,
					Token:       cfg.TokenAddress,
					Logger:      logger,
				}),
				Proofs: proof.New(proof.Config{
					URL:     cfg.ProofURL,
					Retries: cfg.ProofRetries,
					Backoff: cfg.ProofBackoff(),
					Logger:  logger,
				}),
				SettleDelay: cfg.SettleDelay(),
				Logger:      logger,
			})

			orch := orchestrator.New(orchestrator.Config{
				Pool:       pool,
				Step:       step,
				SpawnDelay: cfg.SpawnTaskDelay(),
				Logger:     logger,
			})

			// graceful shutdown: по сигналу прекращаем допуски,
			// дожидаемся выполняющихся задач и выходим.
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// HTTP mux: /healthz + /metrics
			mux := http.NewServeMux()
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			mux.Handle("/metrics", promhttp.Handler())

			go func() {
				logger.Info("listening", "addr", cfg.MetricsAddr)
				if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
					logger.Error("http server error", "error", err)
				}
			}()

			stats, err := orch.Run(ctx, units)
			logger.Info("run finished",
				"total", stats.Total,
				"succeeded", stats.Succeeded,
				"resubmissions", stats.Resubmissions,
				"unfinished", stats.Unfinished,
			)
			return err
		},
	}
}
