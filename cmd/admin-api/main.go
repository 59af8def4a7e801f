// main is the entry point of the admin API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env and env overrides)
//  2. Initialise the logger
//  3. Connect to the configured database (sqlite, postgres or mongo)
//  4. Open the blob store that keeps uploaded images (fs or s3); a failure
//     here closes the database before exiting
//  5. Register all HTTP routes behind the middleware stack
//  6. Start the HTTP server in a separate goroutine
//  7. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, close the database
//
// RUNNING THE SERVER:
//
//	go run ./cmd/admin-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/admin-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sonukathat/shiwansh-project/internal/blob"
	"github.com/Sonukathat/shiwansh-project/internal/blob/core"
	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/http/middleware"
	"github.com/Sonukathat/shiwansh-project/internal/http/server"
	"github.com/Sonukathat/shiwansh-project/internal/http/upload"
	"github.com/Sonukathat/shiwansh-project/internal/refdata"
	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/storage/mongodb"
	"github.com/Sonukathat/shiwansh-project/internal/storage/postgres"
	"github.com/Sonukathat/shiwansh-project/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad exits the process if anything is wrong, so cfg is valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the slog package functions, so the logger is
	// installed as the default as well.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting admin-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3-4. Initialise Storage (Database) and Blob Storage ──────────────
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	store, blobs, err := openBackends(startCtx, cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("storage_driver", cfg.Storage.Driver),
			slog.String("blob_driver", cfg.Blob.Driver),
			slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("driver", cfg.Storage.Driver))
	log.Info("blob storage initialised", slog.String("driver", string(blobs.Driver())))

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	deps := server.Deps{
		Storage:  store,
		RefData:  refdata.New(store, store, cfg.Cache.TTL),
		Uploader: upload.New(blobs, cfg.Upload.MaxBytes),
		Metrics:  middleware.NewMetrics(),
	}
	srv := server.New(cfg, deps)

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks until Shutdown is called, so it runs off the
	// main goroutine and the signal handling below stays reachable.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't want to log it as an error.
		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	//   os.Interrupt = Ctrl+C (SIGINT)
	//   syscall.SIGTERM = sent by `kill <pid>` or container orchestrators
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Shutdown stops accepting connections and waits for active requests
	// until the deadline; the deferred store.Close runs after it.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// Openers, swapped out in tests.
var (
	openStore = openStorage
	openBlob  = blob.Open
)

// openBackends opens the database and then the blob store. When the blob
// store fails the database is closed before returning, since the caller
// exits without running its defers.
func openBackends(ctx context.Context, cfg *config.Config) (storage.Storage, core.Store, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	blobs, err := openBlob(ctx, cfg)
	if err != nil {
		if cerr := store.Close(); cerr != nil {
			slog.Warn("failed to close storage", slog.String("error", cerr.Error()))
		}
		return nil, nil, fmt.Errorf("open blob storage: %w", err)
	}
	return store, blobs, nil
}

// openStorage connects to the backend named by cfg.Storage.Driver.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg)
	case config.DriverMongo:
		return mongodb.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
