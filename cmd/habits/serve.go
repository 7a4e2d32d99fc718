package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/habit-tasks/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the suggestion service",
		Long: `Start the HTTP suggestion service.

Endpoints:
  POST /suggest   {"habits": "..."}                      → {"suggestions": [...]}
  POST /feedback  {"habits": "...", "task": "...", "rating": 1|-1} → {"ok": true}
  GET  /healthz
  GET  /metrics   Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func (a *app) runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()

	engine, store, err := a.openEngine(ctx)
	if err != nil {
		return err
	}
	defer closeStore(store)

	srv := server.New(engine,
		server.WithK(a.cfg.Suggest.K),
		server.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		server.WithLogger(slog.Default()))

	if err := srv.ListenAndServe(ctx, a.cfg.Server.Addr); err != nil {
		return fmt.Errorf("suggestion service failed: %w", err)
	}
	return nil
}
