package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/ledger"
	"solana-sniper-terminal/internal/storage"
	"solana-sniper-terminal/internal/storage/memory"
)

// stubGateway serves canned feed data and counts pair lookups.
type stubGateway struct {
	candidates    []domain.TokenCandidate
	candidatesErr error
	pairs         map[string]*domain.PairSnapshot
	pairCalls     map[string]int

	// pairHook, when set, runs at the start of every FetchPair call.
	pairHook func(ctx context.Context)
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		pairs:     make(map[string]*domain.PairSnapshot),
		pairCalls: make(map[string]int),
	}
}

func (g *stubGateway) FetchCandidates(ctx context.Context) ([]domain.TokenCandidate, error) {
	if g.candidatesErr != nil {
		return nil, g.candidatesErr
	}
	return g.candidates, nil
}

func (g *stubGateway) FetchPair(ctx context.Context, address string) (*domain.PairSnapshot, error) {
	if g.pairHook != nil {
		g.pairHook(ctx)
	}
	g.pairCalls[address]++
	pair, ok := g.pairs[address]
	if !ok {
		return nil, errors.New("no pairs listed for token")
	}
	return pair, nil
}

type testEnv struct {
	runner    *Runner
	gateway   *stubGateway
	balances  *memory.BalanceStore
	positions *memory.PositionStore
	trades    *memory.TradeStore
	scans     *memory.ScanFeedStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gateway := newStubGateway()
	balances := memory.NewBalanceStore(10.0)
	positions := memory.NewPositionStore()
	trades := memory.NewTradeStore()
	scans := memory.NewScanFeedStore()

	runner := NewRunner(Options{
		Gateway:   gateway,
		Ledger:    ledger.New(balances, positions, trades, nil),
		Balances:  balances,
		Positions: positions,
		Scans:     scans,
		Settings:  memory.NewSettingsStore(),
	})

	return &testEnv{
		runner:    runner,
		gateway:   gateway,
		balances:  balances,
		positions: positions,
		trades:    trades,
		scans:     scans,
	}
}

func strongPair(symbol string, price float64) *domain.PairSnapshot {
	// Scores 100 with default thresholds.
	return &domain.PairSnapshot{
		BaseSymbol:    symbol,
		LiquidityUSD:  15000,
		VolumeH1:      20000,
		BuysH1:        70,
		SellsH1:       30,
		PriceChangeH1: 25,
		PriceNative:   price,
	}
}

func weakPair(symbol string) *domain.PairSnapshot {
	return &domain.PairSnapshot{
		BaseSymbol:   symbol,
		LiquidityUSD: 1500,
		VolumeH1:     100,
		BuysH1:       5,
		SellsH1:      5,
		PriceNative:  0.001,
	}
}

func TestRunCycle_StrongSignalOpensPosition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.001)

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 1, summary.Entered)

	pos, err := env.positions.GetByAddress(ctx, "mint-a")
	require.NoError(t, err)
	assert.Equal(t, "AAA", pos.Symbol)
	assert.InDelta(t, 500.0, pos.Quantity, 1e-9)

	balance, err := env.balances.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 9.5, balance, 1e-9)
}

func TestRunCycle_WeakSignalOnlyLogged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-w", ChainID: "solana"}}
	env.gateway.pairs["mint-w"] = weakPair("WWW")

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 0, summary.Entered)

	// Logged to the feed regardless of tier.
	entries, err := env.scans.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.StrengthWeak, entries[0].Strength)

	_, err = env.positions.GetByAddress(ctx, "mint-w")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunCycle_TokenEvaluatedAtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = weakPair("AAA")

	_, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	_, err = env.runner.RunCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, env.gateway.pairCalls["mint-a"], "second cycle must not re-fetch a seen token")
}

func TestRunCycle_FailedPairLookupSpendsCandidate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No pair data registered: the lookup fails, the token stays spent.
	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-gone", ChainID: "solana"}}

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Scanned)

	_, err = env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, env.gateway.pairCalls["mint-gone"])
}

func TestRunCycle_DiscoveryFailureStillManagesPositions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Open a position first.
	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.001)
	_, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)

	// Discovery goes down while the price hits the profit target.
	env.gateway.candidatesErr = errors.New("feed unavailable")
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.0013)

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exited)

	trades, err := env.trades.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, domain.ExitReasonTakeProfit, trades[0].Reason)
}

func TestRunCycle_StopLossExit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.001)
	_, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)

	env.gateway.candidates = nil
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.00085) // -15%

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Exited)
	assert.Equal(t, 0, summary.OpenPositions)

	trades, err := env.trades.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, domain.ExitReasonStopLoss, trades[0].Reason)

	balance, err := env.balances.Get(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 9.5+0.425, balance, 1e-9)
}

func TestRunCycle_UnpriceablePositionCarried(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.001)
	_, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)

	// Feed loses the pair: the position must survive untouched.
	env.gateway.candidates = nil
	delete(env.gateway.pairs, "mint-a")

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Exited)
	assert.Equal(t, 1, summary.OpenPositions)

	_, err = env.positions.GetByAddress(ctx, "mint-a")
	require.NoError(t, err)
}

func TestRunCycle_InsufficientBalanceSkipsEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Drain the balance to below one trade size.
	_, err := env.balances.Adjust(ctx, -9.8)
	require.NoError(t, err)

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = strongPair("AAA", 0.001)

	summary, err := env.runner.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 0, summary.Entered)

	// Still logged to the feed.
	entries, err := env.scans.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunner_StartStop(t *testing.T) {
	env := newTestEnv(t)

	require.False(t, env.runner.Running())
	require.NoError(t, env.runner.Start(context.Background()))
	assert.True(t, env.runner.Running())

	// Double start is rejected.
	assert.Error(t, env.runner.Start(context.Background()))

	env.runner.Stop()
	assert.False(t, env.runner.Running())

	// Restart works after a stop.
	require.NoError(t, env.runner.Start(context.Background()))
	env.runner.Stop()
}

func TestRunner_StopLetsInFlightCycleFinish(t *testing.T) {
	env := newTestEnv(t)

	env.gateway.candidates = []domain.TokenCandidate{{Address: "mint-a", ChainID: "solana"}}
	env.gateway.pairs["mint-a"] = weakPair("AAA")

	entered := make(chan struct{})
	release := make(chan struct{})
	var hookCtxErr error
	env.gateway.pairHook = func(ctx context.Context) {
		close(entered)
		<-release
		hookCtxErr = ctx.Err()
	}

	require.NoError(t, env.runner.Start(context.Background()))
	<-entered

	stopped := make(chan struct{})
	go func() {
		env.runner.Stop()
		close(stopped)
	}()

	// Stop must block while the cycle is in flight.
	select {
	case <-stopped:
		t.Fatal("Stop returned while a cycle was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the cycle finished")
	}

	// The in-flight gateway call never saw the stop as a cancellation, and
	// the candidate it was evaluating still reached the feed.
	assert.NoError(t, hookCtxErr)
	assert.False(t, env.runner.Running())

	entries, err := env.scans.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mint-a", entries[0].Address)
}
