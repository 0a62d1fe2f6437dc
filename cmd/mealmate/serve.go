package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	adapthttp "mealmate/internal/adapter/http"
	"mealmate/internal/adapter/storehttp"
	"mealmate/internal/app"
)

// embedStore also runs the record store in the same process.
var embedStore bool

func init() {
	serveCmd.Flags().BoolVar(&embedStore, "embed-store", false, "run the record store in-process on recordstore.addr")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner API and web front end",
	Long: `Serve the planner JSON API, Prometheus metrics and the static front end.

Examples:
  # Against a record store on localhost:3001
  mealmate serve

  # Keep meals in a local SQLite file
  MEALMATE_STORE_BACKEND=sqlite mealmate serve

  # Run the record store alongside the planner
  mealmate serve --embed-store`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var servers []*http.Server
	if embedStore {
		backend, closeBackend, err := openRecordStoreBackend(cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeBackend() }()
		servers = append(servers, &http.Server{
			Addr:        cfg.RecordStore.Addr,
			Handler:     storehttp.New(backend, logger.Named("recordstore")).Handler(),
			ReadTimeout: cfg.Server.ReadTimeout,
		})
	}

	repo, closeRepo, err := openPlannerStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeRepo() }()

	meals := app.NewMealStore(repo, app.WithLogger(logger), app.WithRetry(retryPolicy(cfg)))
	planner := app.NewPlannerService(meals, plannerOptions(cfg)...)
	authSvc := app.NewAuthService(repo, logger)

	h := adapthttp.New(meals, planner, authSvc, cfg.Server.WebDir, logger).
		RequireAuth(cfg.Planner.AuthRequired).
		Handler()
	servers = append(servers, &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// The embedded store may not be listening yet; a failed first load
	// leaves the planner empty until the next successful write or restart.
	go func() {
		if err := meals.LoadAll(ctx); err != nil {
			logger.Warn("initial meal load failed", zap.Error(err))
		}
	}()

	return runServers(ctx, logger, cfg.Server.ShutdownTimeout, servers...)
}
