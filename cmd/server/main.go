/*
main.go - HTTP server entry point

PURPOSE:
  Starts the award engine API. Handles configuration, dependency
  injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse configuration (env, then flags)
  2. Build zap logger
  3. Open store (SQLite file, ":memory:", or in-memory when DB_PATH is empty)
  4. Seed preset awards and default tables into an empty store
  5. Serve HTTP until SIGINT/SIGTERM

FLAGS:
  -addr        HTTP listen address            (ADDR)
  -db          SQLite database path           (DB_PATH)
  -log-level   debug | info | warn | error    (LOG_LEVEL)
  -log-format  json | console                 (LOG_FORMAT)
  -year        Default financial year         (DEFAULT_YEAR)
  -seed        Seed an empty store            (SEED_DEFAULTS)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests (SHUTDOWN_TIMEOUT)
  3. Close database connection

EXAMPLES:
  ./server -db="./data/awards.db"
  ./server -db="" -log-format=console

SEE ALSO:
  - config/config.go: Variables and defaults
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/award-engine/api"
	"github.com/warp/award-engine/config"
	"github.com/warp/award-engine/store"
	"github.com/warp/award-engine/store/sqlite"
)

func main() {
	os.Exit(serve(os.Args[1:]))
}

// serve returns the process exit code: 2 for bad configuration, 1 when the
// server fails. Deferred cleanup and the logger flush run before it returns.
func serve(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 2
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 2
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server terminated with error", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedDefaults {
		res, err := store.Seed(ctx, s)
		if err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
		logger.Info("store seeded", zap.Int("awards", res.Awards), zap.Int("table_sets", res.TableSets))
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	handler := api.NewHandler(s, logger, api.Options{DefaultYear: cfg.DefaultYear, Location: loc})
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.InMemory() {
		return store.NewMemory(), func() {}, nil
	}
	s, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, func() { s.Close() }, nil
}
