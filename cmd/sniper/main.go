// Package main runs the paper trading terminal: the scan/trade loop, the
// REST and websocket API, and the Prometheus metrics listener.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"solana-sniper-terminal/internal/api"
	"solana-sniper-terminal/internal/config"
	"solana-sniper-terminal/internal/dexscreener"
	"solana-sniper-terminal/internal/ledger"
	"solana-sniper-terminal/internal/logging"
	"solana-sniper-terminal/internal/observability"
	"solana-sniper-terminal/internal/scanner"
	"solana-sniper-terminal/internal/storage"
	chstore "solana-sniper-terminal/internal/storage/clickhouse"
	"solana-sniper-terminal/internal/storage/memory"
	"solana-sniper-terminal/internal/storage/migrations"
	pgstore "solana-sniper-terminal/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	balances  storage.BalanceStore
	positions storage.PositionStore
	trades    storage.TradeStore
	scans     storage.ScanFeedStore
	settings  storage.SettingsStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Dir: cfg.Logging.Dir, Debug: cfg.Logging.Debug})
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("create stores", "error", err)
	}
	defer cleanup()

	gateway := dexscreener.NewClient(dexscreener.Config{
		ProfilesURL:       cfg.Feed.ProfilesURL,
		PairsURL:          cfg.Feed.PairsURL,
		ChainID:           cfg.Feed.ChainID,
		Timeout:           cfg.Feed.Timeout,
		RequestsPerSecond: cfg.Feed.RequestsPerSecond,
	}, logger)

	book := ledger.New(stores.balances, stores.positions, stores.trades, logger)
	hub := api.NewHub(logger)

	runner := scanner.NewRunner(scanner.Options{
		Gateway:   gateway,
		Ledger:    book,
		Balances:  stores.balances,
		Positions: stores.positions,
		Scans:     stores.scans,
		Settings:  stores.settings,
		Interval:  cfg.Scanner.Interval,
		Notifier:  hub,
		Logger:    logger,
	})

	server := api.NewServer(cfg.Server.Addr, api.Options{
		Balances:    stores.balances,
		Positions:   stores.positions,
		Trades:      stores.trades,
		Scans:       stores.scans,
		Settings:    stores.settings,
		Scanner:     runner,
		Hub:         hub,
		Logger:      logger,
		BaseContext: ctx,
	})

	go startMetricsServer(cfg.Server.MetricsAddr, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Errorw("api server failed", "error", err)
			cancel()
		}
	}()

	if cfg.Scanner.AutoStart {
		if err := runner.Start(ctx); err != nil {
			logger.Fatalw("start scanner", "error", err)
		}
	}

	waitForShutdown(ctx, logger)

	runner.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("api shutdown", "error", err)
	}
	logger.Infow("shutdown complete")
}

// createStores builds either the memory backends or the
// PostgreSQL + ClickHouse pair, applying migrations for the latter.
func createStores(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*allStores, func(), error) {
	if cfg.Database.UseMemory {
		logger.Infow("using in-memory storage", "initial_balance", cfg.Scanner.InitialBalance)
		stores := &allStores{
			balances:  memory.NewBalanceStore(cfg.Scanner.InitialBalance),
			positions: memory.NewPositionStore(),
			trades:    memory.NewTradeStore(),
			scans:     memory.NewScanFeedStore(),
			settings:  memory.NewSettingsStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.Database.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	stores := &allStores{
		balances:  pgstore.NewBalanceStore(pool),
		positions: pgstore.NewPositionStore(pool),
		trades:    pgstore.NewTradeStore(pool),
		settings:  pgstore.NewSettingsStore(pool),
		scans:     chstore.NewScanFeedStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

func startMetricsServer(addr string, logger *zap.SugaredLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	logger.Infow("metrics server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Errorw("metrics server failed", "error", err)
	}
}

// waitForShutdown blocks until a signal arrives or the context dies. A second
// signal forces immediate exit.
func waitForShutdown(ctx context.Context, logger *zap.SugaredLogger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infow("received signal, shutting down", "signal", sig.String())
		go func() {
			<-sigCh
			logger.Warnw("second signal, forcing exit")
			os.Exit(1)
		}()
	case <-ctx.Done():
	}
}
