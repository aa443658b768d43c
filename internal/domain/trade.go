package domain

import "time"

// Exit reason codes. These are the only two exit paths: there is no manual
// close and no trailing stop in this design.
const (
	ExitReasonTakeProfit = "TAKE_PROFIT"
	ExitReasonStopLoss   = "STOP_LOSS"
)

// TradeRecord is a closed trade. Immutable once created; the history table
// is append-only.
type TradeRecord struct {
	TradeID    string    `json:"trade_id"` // uuid
	Symbol     string    `json:"symbol"`
	Address    string    `json:"address"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Quantity   float64   `json:"quantity"`
	PnL        float64   `json:"pnl"`     // realized, SOL
	PnLPct     float64   `json:"pnl_pct"` // realized, percent
	Reason     string    `json:"reason"`  // TAKE_PROFIT | STOP_LOSS
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
}
