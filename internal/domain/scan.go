package domain

import "time"

// Strength tiers classify a token's attractiveness.
const (
	StrengthIgnore = "IGNORE"
	StrengthWeak   = "WEAK"
	StrengthMedium = "MEDIUM"
	StrengthStrong = "STRONG"
)

// ScanEntry is one row of the live scan feed: the latest evaluation of a
// discovered token. One row per address, most-recent-write-wins.
type ScanEntry struct {
	Address      string    `json:"address"`
	Symbol       string    `json:"symbol"`
	Icon         string    `json:"icon,omitempty"`
	LiquidityUSD float64   `json:"liquidity_usd"`
	Score        int       `json:"score"`
	Strength     string    `json:"strength"`
	ScannedAt    time.Time `json:"scanned_at"`
}
