package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/storage"
	"solana-sniper-terminal/internal/storage/memory"
)

// The balance must never go negative and an address must never hold more
// than one position, no matter what entry/exit sequence the scanner throws
// at the ledger.
func TestLedger_Invariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("balance stays non-negative across entries", prop.ForAll(
		func(initial float64, prices []float64) bool {
			ctx := context.Background()
			balances := memory.NewBalanceStore(initial)
			l := New(balances, memory.NewPositionStore(), memory.NewTradeStore(), nil)
			settings := domain.DefaultSettings()

			for i, price := range prices {
				_, err := l.Enter(ctx, fmt.Sprintf("mint-%d", i), "TOK", price, settings)
				if err != nil && !errors.Is(err, storage.ErrInsufficientBalance) {
					return false
				}
			}

			balance, err := balances.Get(ctx)
			return err == nil && balance >= 0
		},
		gen.Float64Range(0, 3),
		gen.SliceOfN(10, gen.Float64Range(0.0001, 0.01)),
	))

	properties.Property("an address holds at most one position", prop.ForAll(
		func(prices []float64) bool {
			ctx := context.Background()
			positions := memory.NewPositionStore()
			l := New(memory.NewBalanceStore(100), positions, memory.NewTradeStore(), nil)
			settings := domain.DefaultSettings()

			// Hammer the same address with repeated entries.
			for _, price := range prices {
				_, err := l.Enter(ctx, "single-mint", "TOK", price, settings)
				if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
					return false
				}
			}

			open, err := positions.List(ctx)
			return err == nil && len(open) <= 1
		},
		gen.SliceOfN(8, gen.Float64Range(0.0001, 0.01)),
	))

	properties.Property("enter then exit conserves value at flat price", prop.ForAll(
		func(price float64) bool {
			ctx := context.Background()
			balances := memory.NewBalanceStore(10)
			l := New(balances, memory.NewPositionStore(), memory.NewTradeStore(), nil)

			pos, err := l.Enter(ctx, "mint", "TOK", price, domain.DefaultSettings())
			if err != nil {
				return false
			}
			if _, err := l.Exit(ctx, pos, price, domain.ExitReasonStopLoss); err != nil {
				return false
			}

			balance, err := balances.Get(ctx)
			if err != nil {
				return false
			}
			diff := balance - 10
			return diff < 1e-9 && diff > -1e-9
		},
		gen.Float64Range(0.0001, 0.01),
	))

	properties.TestingRun(t)
}
