package domain

// PairSnapshot is point-in-time market data for a token's primary trading
// pair. Refreshed every cycle for every tracked address.
type PairSnapshot struct {
	BaseAddress   string  // base token address
	BaseSymbol    string  // base token symbol
	LiquidityUSD  float64 // pool liquidity in USD
	VolumeH1      float64 // hourly volume in USD
	BuysH1        int     // hourly buy transaction count
	SellsH1       int     // hourly sell transaction count
	PriceChangeH1 float64 // hourly price change, percent
	PriceNative   float64 // price in native chain currency (SOL)
}

// TotalTxnsH1 returns the total hourly transaction count.
func (p *PairSnapshot) TotalTxnsH1() int {
	return p.BuysH1 + p.SellsH1
}
