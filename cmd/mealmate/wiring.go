package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mealmate/internal/adapter/memory"
	"mealmate/internal/adapter/postgres"
	"mealmate/internal/adapter/recordstore"
	"mealmate/internal/adapter/sqlite"
	"mealmate/internal/adapter/storehttp"
	"mealmate/internal/app"
	"mealmate/internal/config"
)

// openPlannerStore returns the repository the planner persists to.
func openPlannerStore(c *config.Config) (storehttp.Repository, func() error, error) {
	noop := func() error { return nil }
	switch c.Store.Backend {
	case config.BackendRecordStore:
		client, err := recordstore.New(c.Store.URL,
			recordstore.WithTimeout(c.Store.Timeout),
			recordstore.WithRateLimit(c.Store.RateLimit, c.Store.Burst),
		)
		if err != nil {
			return nil, nil, err
		}
		return client, noop, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(c.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendMemory:
		return memory.New(), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
}

// openRecordStoreBackend returns what the bundled record store serves:
// PostgreSQL when a database URL is configured, memory otherwise.
func openRecordStoreBackend(c *config.Config, log *zap.Logger) (storehttp.Repository, func() error, error) {
	if c.RecordStore.DatabaseURL == "" {
		log.Warn("no database_url configured, record store keeps data in memory")
		return memory.New(), func() error { return nil }, nil
	}
	db, err := postgres.Open(c.RecordStore.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}
	return db, db.Close, nil
}

func retryPolicy(c *config.Config) app.RetryPolicy {
	return app.RetryPolicy{
		MaxTries:        c.Store.RetryMaxTries,
		InitialInterval: c.Store.RetryInitialInterval,
		MaxInterval:     c.Store.RetryMaxInterval,
	}
}

func plannerOptions(c *config.Config) []app.PlannerOption {
	return []app.PlannerOption{
		app.WithWeekStart(c.Planner.WeekStartDay()),
		app.WithMode(c.Planner.ViewMode()),
	}
}

// runServers serves every server until ctx is done or one of them fails,
// then shuts all of them down.
func runServers(ctx context.Context, log *zap.Logger, shutdownTimeout time.Duration, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
			}
			log.Info("server stopped", zap.String("addr", srv.Addr))
			return nil
		})
	}
	return g.Wait()
}
