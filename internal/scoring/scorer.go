// Package scoring grades pair snapshots into signal strength tiers.
package scoring

import "solana-sniper-terminal/internal/domain"

// Liquidity below this floor is untradable noise regardless of activity.
const liquidityFloorUSD = 2000

// Result is the outcome of scoring one pair snapshot.
type Result struct {
	Strength string
	Score    int
}

// Analyze grades a snapshot against minScore. It is pure: the same snapshot
// and threshold always produce the same result.
//
// The floor checks short-circuit: a pool under the liquidity floor is WEAK
// with score 0, and a pool with no trades in the last hour is IGNORE.
func Analyze(pair *domain.PairSnapshot, minScore int) Result {
	if pair.LiquidityUSD < liquidityFloorUSD {
		return Result{Strength: domain.StrengthWeak, Score: 0}
	}

	totalTxns := pair.TotalTxnsH1()
	if totalTxns == 0 {
		return Result{Strength: domain.StrengthIgnore, Score: 0}
	}

	score := 0

	if pair.LiquidityUSD > 10000 {
		score += 20
	} else if pair.LiquidityUSD > 5000 {
		score += 10
	}

	buyRatio := float64(pair.BuysH1) / float64(totalTxns)
	if buyRatio > 0.60 {
		score += 50
	}

	if pair.VolumeH1 > 10000 {
		score += 10
	} else if pair.VolumeH1 > 5000 {
		score += 5
	}

	if pair.PriceChangeH1 > 10 {
		score += 10
	} else if pair.PriceChangeH1 < -10 {
		score -= 20
	}

	avgTxSize := pair.VolumeH1 / float64(totalTxns)
	if avgTxSize > 50 {
		score += 10
	}

	strength := domain.StrengthWeak
	switch {
	case score >= minScore:
		strength = domain.StrengthStrong
	case score >= minScore-30:
		strength = domain.StrengthMedium
	}

	return Result{Strength: strength, Score: score}
}
