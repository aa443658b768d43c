// Package scanner runs the discovery and trade polling loop.
// Each cycle: read settings → discover and score new tokens → open entries →
// revalue open positions → settle exits.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/ledger"
	"solana-sniper-terminal/internal/observability"
	"solana-sniper-terminal/internal/scoring"
	"solana-sniper-terminal/internal/storage"
)

// Gateway is the market feed surface the scanner needs.
type Gateway interface {
	FetchCandidates(ctx context.Context) ([]domain.TokenCandidate, error)
	FetchPair(ctx context.Context, address string) (*domain.PairSnapshot, error)
}

// Notifier receives scanner events for live fan-out. Implementations must
// not block; the scanner calls them inline.
type Notifier interface {
	ScanLogged(entry *domain.ScanEntry)
	CycleCompleted(summary CycleSummary)
}

// CycleSummary describes one completed scan cycle.
type CycleSummary struct {
	Scanned       int           `json:"scanned"`
	Entered       int           `json:"entered"`
	Exited        int           `json:"exited"`
	OpenPositions int           `json:"open_positions"`
	Balance       float64       `json:"balance"`
	Duration      time.Duration `json:"duration"`
}

// Options for creating a Runner.
type Options struct {
	Gateway   Gateway
	Ledger    *ledger.Ledger
	Balances  storage.BalanceStore
	Positions storage.PositionStore
	Scans     storage.ScanFeedStore
	Settings  storage.SettingsStore

	// Interval between cycles. Defaults to 10s.
	Interval time.Duration
	// Notifier is optional.
	Notifier Notifier
	Logger   *zap.SugaredLogger
}

// Runner owns the polling loop. The seen set lives on the Runner, so a token
// is evaluated at most once per process lifetime; a restart starts fresh.
type Runner struct {
	gateway   Gateway
	ledger    *ledger.Ledger
	balances  storage.BalanceStore
	positions storage.PositionStore
	scans     storage.ScanFeedStore
	settings  storage.SettingsStore
	interval  time.Duration
	notifier  Notifier
	logger    *zap.SugaredLogger

	seen map[string]struct{}

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	interval := opts.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{
		gateway:   opts.Gateway,
		ledger:    opts.Ledger,
		balances:  opts.Balances,
		positions: opts.Positions,
		scans:     opts.Scans,
		settings:  opts.Settings,
		interval:  interval,
		notifier:  opts.Notifier,
		logger:    logger,
		seen:      make(map[string]struct{}),
	}
}

// Running reports whether the loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start launches the polling loop. Returns an error if already running.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("scanner already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(loopCtx)
	r.logger.Infow("scanner started", "interval", r.interval)
	return nil
}

// Stop halts the loop and waits for the in-flight cycle to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	<-done
	r.logger.Infow("scanner stopped")
}

func (r *Runner) loop(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(r.done)
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// A cycle always runs to completion once started; the stop signal is
	// observed between cycles only. Per-request HTTP timeouts bound how long
	// a cycle can take.
	cycleCtx := context.WithoutCancel(ctx)

	for {
		if err := r.runCycleTracked(cycleCtx); err != nil {
			// Store failures mean the ledger can no longer be trusted;
			// halt instead of trading against stale state.
			r.logger.Errorw("scan cycle failed, halting scanner", "error", err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) runCycleTracked(ctx context.Context) error {
	start := time.Now()
	summary, err := r.RunCycle(ctx)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		observability.RecordScanCycle("error", elapsed.Seconds())
		return err
	}

	observability.RecordScanCycle("ok", elapsed.Seconds())
	observability.DefaultMetrics.LastSuccessfulScan.Set(float64(time.Now().Unix()))
	observability.DefaultMetrics.SeenTokensTracked.Set(float64(len(r.seen)))

	summary.Duration = elapsed
	if r.notifier != nil {
		r.notifier.CycleCompleted(*summary)
	}
	r.logger.Infow("scan cycle completed",
		"scanned", summary.Scanned,
		"entered", summary.Entered,
		"exited", summary.Exited,
		"open_positions", summary.OpenPositions,
		"balance", summary.Balance,
		"duration", elapsed,
	)
	return nil
}

// RunCycle executes one scan and trade pass. Feed failures degrade the cycle
// (discovery is skipped, unpriceable positions are carried); store failures
// abort it with an error.
func (r *Runner) RunCycle(ctx context.Context) (*CycleSummary, error) {
	summary := &CycleSummary{}

	settings, err := r.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err := r.discover(ctx, settings, summary); err != nil {
		return nil, err
	}
	if err := r.manage(ctx, settings, summary); err != nil {
		return nil, err
	}

	balance, err := r.balances.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}
	summary.Balance = balance
	observability.UpdateBalance(balance)
	observability.UpdateOpenPositions(summary.OpenPositions)

	return summary, nil
}

// discover fetches new token profiles, scores them, logs every evaluation to
// the scan feed, and opens positions on STRONG signals.
func (r *Runner) discover(ctx context.Context, settings domain.Settings, summary *CycleSummary) error {
	candidates, err := r.gateway.FetchCandidates(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		r.logger.Warnw("discovery fetch failed, skipping this cycle", "error", err)
		return nil
	}

	for _, c := range candidates {
		if _, ok := r.seen[c.Address]; ok {
			continue
		}
		// Mark before the detail fetch: a token whose pair lookup fails
		// is still spent, never retried.
		r.seen[c.Address] = struct{}{}

		pair, err := r.gateway.FetchPair(ctx, c.Address)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			r.logger.Debugw("no pair data for candidate", "address", c.Address, "error", err)
			continue
		}

		result := scoring.Analyze(pair, settings.MinScore)
		observability.RecordTokenScored(result.Strength)
		summary.Scanned++

		symbol := pair.BaseSymbol

		entry := &domain.ScanEntry{
			Address:      c.Address,
			Symbol:       symbol,
			Icon:         c.Icon,
			LiquidityUSD: pair.LiquidityUSD,
			Score:        result.Score,
			Strength:     result.Strength,
			ScannedAt:    time.Now().UTC(),
		}
		if err := r.scans.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("log scan for %s: %w", c.Address, err)
		}
		if r.notifier != nil {
			r.notifier.ScanLogged(entry)
		}

		if result.Strength != domain.StrengthStrong {
			continue
		}
		if pair.PriceNative <= 0 {
			r.logger.Debugw("strong signal without a usable price", "address", c.Address)
			continue
		}

		_, err = r.ledger.Enter(ctx, c.Address, symbol, pair.PriceNative, settings)
		switch {
		case err == nil:
			summary.Entered++
		case errors.Is(err, storage.ErrDuplicateKey):
			// Already holding; nothing to do.
		case errors.Is(err, storage.ErrInsufficientBalance):
			r.logger.Infow("skipping entry, balance too low",
				"address", c.Address, "trade_size", settings.TradeSize)
		default:
			return fmt.Errorf("enter position for %s: %w", c.Address, err)
		}
	}

	return nil
}

// manage revalues every open position and settles any that hit an exit rule.
func (r *Runner) manage(ctx context.Context, settings domain.Settings, summary *CycleSummary) error {
	positions, err := r.positions.List(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}

	open := len(positions)
	for _, pos := range positions {
		pair, err := r.gateway.FetchPair(ctx, pos.Address)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			// Carry the position at its last valuation until the feed
			// prices it again.
			r.logger.Warnw("no fresh price for position", "address", pos.Address, "error", err)
			continue
		}
		if pair.PriceNative <= 0 {
			r.logger.Warnw("feed returned non-positive price", "address", pos.Address)
			continue
		}

		pnlFrac, err := r.ledger.Revalue(ctx, pos, pair.PriceNative)
		if err != nil {
			return fmt.Errorf("revalue %s: %w", pos.Address, err)
		}

		reason, exit := ledger.CheckExit(settings, pnlFrac)
		if !exit {
			continue
		}

		if _, err := r.ledger.Exit(ctx, pos, pair.PriceNative, reason); err != nil {
			return fmt.Errorf("exit %s: %w", pos.Address, err)
		}
		summary.Exited++
		open--
	}

	summary.OpenPositions = open
	return nil
}
