package scoring

import (
	"testing"

	"solana-sniper-terminal/internal/domain"
)

func TestAnalyze_BelowLiquidityFloor(t *testing.T) {
	// Floor check runs first: even a heavily traded pool is WEAK when thin.
	pair := &domain.PairSnapshot{
		LiquidityUSD:  1999,
		VolumeH1:      50000,
		BuysH1:        900,
		SellsH1:       100,
		PriceChangeH1: 50,
	}

	got := Analyze(pair, 70)
	if got.Strength != domain.StrengthWeak {
		t.Errorf("expected WEAK, got %s", got.Strength)
	}
	if got.Score != 0 {
		t.Errorf("expected score 0, got %d", got.Score)
	}
}

func TestAnalyze_NoTransactions(t *testing.T) {
	pair := &domain.PairSnapshot{
		LiquidityUSD: 50000,
		VolumeH1:     0,
	}

	got := Analyze(pair, 70)
	if got.Strength != domain.StrengthIgnore {
		t.Errorf("expected IGNORE, got %s", got.Strength)
	}
	if got.Score != 0 {
		t.Errorf("expected score 0, got %d", got.Score)
	}
}

func TestAnalyze_FullScoreIsStrong(t *testing.T) {
	// Every positive component fires: 20+50+10+10+10 = 100.
	pair := &domain.PairSnapshot{
		LiquidityUSD:  15000,
		VolumeH1:      20000,
		BuysH1:        70,
		SellsH1:       30,
		PriceChangeH1: 25,
	}

	got := Analyze(pair, 70)
	if got.Score != 100 {
		t.Errorf("expected score 100, got %d", got.Score)
	}
	if got.Strength != domain.StrengthStrong {
		t.Errorf("expected STRONG, got %s", got.Strength)
	}
}

func TestAnalyze_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		pair     domain.PairSnapshot
		minScore int
		score    int
		strength string
	}{
		{
			name: "medium band",
			// 10 (liq 5k-10k) + 50 (buy ratio) = 60, within minScore-30
			pair: domain.PairSnapshot{
				LiquidityUSD: 6000,
				VolumeH1:     100,
				BuysH1:       7,
				SellsH1:      3,
			},
			minScore: 70,
			score:    60,
			strength: domain.StrengthMedium,
		},
		{
			name: "weak below medium band",
			// 20 (liq) only; buys at exactly 60% don't fire the ratio bonus
			pair: domain.PairSnapshot{
				LiquidityUSD: 20000,
				VolumeH1:     100,
				BuysH1:       6,
				SellsH1:      4,
			},
			minScore: 70,
			score:    20,
			strength: domain.StrengthWeak,
		},
		{
			name: "dump penalty",
			// 20 (liq) + 50 (ratio) - 20 (falling price) = 50
			pair: domain.PairSnapshot{
				LiquidityUSD:  20000,
				VolumeH1:      100,
				BuysH1:        9,
				SellsH1:       1,
				PriceChangeH1: -15,
			},
			minScore: 70,
			score:    50,
			strength: domain.StrengthMedium,
		},
		{
			name: "large average trade size",
			// 20 (liq) + 5 (vol 5k-10k) + 10 (avg tx > 50) = 35
			pair: domain.PairSnapshot{
				LiquidityUSD: 20000,
				VolumeH1:     6000,
				BuysH1:       20,
				SellsH1:      30,
			},
			minScore: 70,
			score:    35,
			strength: domain.StrengthWeak,
		},
		{
			name: "lower threshold promotes to strong",
			pair: domain.PairSnapshot{
				LiquidityUSD: 6000,
				VolumeH1:     100,
				BuysH1:       7,
				SellsH1:      3,
			},
			minScore: 60,
			score:    60,
			strength: domain.StrengthStrong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(&tt.pair, tt.minScore)
			if got.Score != tt.score {
				t.Errorf("score: expected %d, got %d", tt.score, got.Score)
			}
			if got.Strength != tt.strength {
				t.Errorf("strength: expected %s, got %s", tt.strength, got.Strength)
			}
		})
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	pair := &domain.PairSnapshot{
		LiquidityUSD:  8000,
		VolumeH1:      7000,
		BuysH1:        65,
		SellsH1:       35,
		PriceChangeH1: 12,
	}

	first := Analyze(pair, 70)
	for i := 0; i < 10; i++ {
		if got := Analyze(pair, 70); got != first {
			t.Fatalf("run %d: expected %+v, got %+v", i, first, got)
		}
	}
}
