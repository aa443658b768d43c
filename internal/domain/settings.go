package domain

// Settings are the runtime tunables. They may be changed at any time through
// the settings store and are re-read at the start of each decision cycle.
type Settings struct {
	TradeSize    float64 `json:"trade_size"`    // SOL debited per entry
	ProfitTarget float64 `json:"profit_target"` // fraction, e.g. 0.20 = +20%
	StopLoss     float64 `json:"stop_loss"`     // fraction, negative, e.g. -0.10 = -10%
	MinLiquidity float64 `json:"min_liquidity"` // USD, displayed tunable
	MinScore     int     `json:"min_score"`     // STRONG threshold for the scorer
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		TradeSize:    0.5,
		ProfitTarget: 0.20,
		StopLoss:     -0.10,
		MinLiquidity: 1000,
		MinScore:     70,
	}
}
