package domain

// TokenCandidate represents a newly discovered token reported by the
// token-profile feed, not yet evaluated. The profiles feed carries no symbol;
// the pair snapshot is the authoritative source for it.
type TokenCandidate struct {
	Address string // chain-unique token address (base58 mint)
	ChainID string // e.g. "solana"
	Icon    string // optional icon URL
}
