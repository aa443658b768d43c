package domain

import "time"

// Position is an open simulated holding in one token.
// Invariants: at most one open position per address, Quantity > 0,
// AvgEntryPrice > 0.
type Position struct {
	Address       string    `json:"address"` // unique key
	Symbol        string    `json:"symbol"`
	AvgEntryPrice float64   `json:"avg_entry_price"` // SOL per token
	Quantity      float64   `json:"quantity"`        // tokens held
	CurrentPrice  float64   `json:"current_price"`   // last observed price
	PnL           float64   `json:"pnl"`             // unrealized, SOL
	PnLPct        float64   `json:"pnl_pct"`         // unrealized, percent
	EntryTime     time.Time `json:"entry_time"`
}
