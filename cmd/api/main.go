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

	"github.com/juanwalsh/backendtest/internal/api"
	"github.com/juanwalsh/backendtest/internal/infra/logging"
	"github.com/juanwalsh/backendtest/internal/infra/pgutils"
	"github.com/juanwalsh/backendtest/internal/infra/redisutil"
	"github.com/juanwalsh/backendtest/internal/services/audit"
	"github.com/juanwalsh/backendtest/internal/services/round"
	"github.com/juanwalsh/backendtest/internal/services/session"
	"github.com/juanwalsh/backendtest/internal/services/wallet"
	"github.com/juanwalsh/backendtest/pkg/envconf"
	"github.com/juanwalsh/backendtest/pkg/shutdownqueue"

	"github.com/go-redis/redis/v8"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.DSN, cfg.Pool)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("closing database pool")

		return db.Close()
	})

	// Redis is best effort: the wallet degrades to uncached reads and a
	// silent audit trail when it is unreachable.
	var rdb *redis.Client

	rdb, err = redisutil.Connect(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, continuing without cache and audit", "error", err)

		rdb = nil
	} else {
		shutdownqueue.Add(func(context.Context) error {
			slog.Info("closing redis client")

			return rdb.Close()
		})
	}

	// --- Services ---
	walletSvc := wallet.New(db)
	sessionSvc := session.New(db)

	casinoClient := round.NewCasinoClient(cfg.CasinoBaseURL, cfg.CasinoSecret)
	roundSvc := round.New(db, casinoClient)

	handler := api.NewHandler(api.HandlerDeps{
		Wallet:   walletSvc,
		Sessions: sessionSvc,
		Rounds:   roundSvc,
		Cache:    wallet.NewBalanceCache(rdb, cfg.BalanceCacheTTL),
		Audit:    audit.NewPublisher(rdb),
		Provider: api.NewProviderClient(cfg.ProviderBaseURL, cfg.ProviderSecret),
		DB:       db,
		Redis:    rdb,
	})

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, handler, api.Secrets{
		Casino:   cfg.CasinoSecret,
		Provider: cfg.ProviderSecret,
	})

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("shutting down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
