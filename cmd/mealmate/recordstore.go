package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mealmate/internal/adapter/storehttp"
)

var recordStoreCmd = &cobra.Command{
	Use:   "recordstore",
	Short: "Serve the /meals and /users record store",
	Long: `Serve the REST record store the planner persists to.

Records live in PostgreSQL when recordstore.database_url (or DATABASE_URL) is
set, and in memory otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, closeBackend, err := openRecordStoreBackend(cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeBackend() }()

		srv := &http.Server{
			Addr:         cfg.RecordStore.Addr,
			Handler:      storehttp.New(backend, logger).Handler(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
		return runServers(ctx, logger, cfg.Server.ShutdownTimeout, srv)
	},
}
