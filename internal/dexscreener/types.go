package dexscreener

// tokenProfile is one entry of the token-profiles feed.
type tokenProfile struct {
	URL          string `json:"url"`
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
}

// pairsResponse is the envelope of the pair-detail endpoint.
type pairsResponse struct {
	Pairs []pairData `json:"pairs"`
}

type pairData struct {
	ChainID     string      `json:"chainId"`
	PairAddress string      `json:"pairAddress"`
	BaseToken   tokenInfo   `json:"baseToken"`
	QuoteToken  tokenInfo   `json:"quoteToken"`
	PriceNative string      `json:"priceNative"`
	PriceUsd    string      `json:"priceUsd"`
	Txns        txns        `json:"txns"`
	Volume      volume      `json:"volume"`
	PriceChange priceChange `json:"priceChange"`
	Liquidity   liquidity   `json:"liquidity"`
}

type tokenInfo struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type txns struct {
	H1 buysSells `json:"h1"`
}

type buysSells struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type volume struct {
	H1 float64 `json:"h1"`
}

type priceChange struct {
	H1 float64 `json:"h1"`
}

type liquidity struct {
	USD float64 `json:"usd"`
}
