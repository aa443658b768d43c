// Package dexscreener fetches token discovery and pair market data from a
// DexScreener-compatible HTTP API.
package dexscreener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/observability"
)

// ErrNoPairs means the feed knows no tradable pair for the token yet. Newly
// listed tokens routinely hit this for the first few minutes.
var ErrNoPairs = errors.New("no pairs listed for token")

// Config holds client settings.
type Config struct {
	// ProfilesURL is the token discovery endpoint (latest token profiles).
	ProfilesURL string
	// PairsURL is the pair detail endpoint; the token address is appended.
	PairsURL string
	// ChainID filters discovery to one chain.
	ChainID string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// RequestsPerSecond caps the outbound request rate.
	RequestsPerSecond float64
}

// DefaultConfig returns production defaults for the public DexScreener API.
func DefaultConfig() Config {
	return Config{
		ProfilesURL:       "https://api.dexscreener.com/token-profiles/latest/v1",
		PairsURL:          "https://api.dexscreener.com/latest/dex/tokens",
		ChainID:           "solana",
		Timeout:           8 * time.Second,
		RequestsPerSecond: 5,
	}
}

// Client is a rate-limited, breaker-protected feed client.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

// NewClient creates a Client. A nil logger disables logging.
func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "dexscreener",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("feed breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)),
		breaker: breaker,
		logger:  logger,
	}
}

// FetchCandidates returns newly profiled tokens on the configured chain.
// Entries with a missing or malformed mint address are dropped, not fatal.
func (c *Client) FetchCandidates(ctx context.Context) ([]domain.TokenCandidate, error) {
	body, err := c.get(ctx, "profiles", c.cfg.ProfilesURL)
	if err != nil {
		return nil, fmt.Errorf("fetch token profiles: %w", err)
	}

	var profiles []tokenProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, fmt.Errorf("decode token profiles: %w", err)
	}

	candidates := make([]domain.TokenCandidate, 0, len(profiles))
	for _, p := range profiles {
		if p.ChainID != c.cfg.ChainID {
			observability.RecordPairRejected("wrong_chain")
			continue
		}
		if !validMintAddress(p.TokenAddress) {
			observability.RecordPairRejected("bad_address")
			c.logger.Debugw("dropping candidate with invalid mint address", "address", p.TokenAddress)
			continue
		}
		candidates = append(candidates, domain.TokenCandidate{
			Address: p.TokenAddress,
			ChainID: p.ChainID,
			Icon:    p.Icon,
		})
	}

	observability.RecordCandidatesFetched(len(candidates))
	return candidates, nil
}

// FetchPair returns the deepest-liquidity pair for the token. Returns
// ErrNoPairs when the feed lists none; transport and decode failures come
// back as ordinary errors.
func (c *Client) FetchPair(ctx context.Context, address string) (*domain.PairSnapshot, error) {
	body, err := c.get(ctx, "pairs", c.cfg.PairsURL+"/"+address)
	if err != nil {
		return nil, fmt.Errorf("fetch pairs for %s: %w", address, err)
	}

	var resp pairsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode pairs for %s: %w", address, err)
	}
	if len(resp.Pairs) == 0 {
		return nil, ErrNoPairs
	}

	// Pick the deepest pool; on equal liquidity the feed's first entry wins.
	best := resp.Pairs[0]
	for _, p := range resp.Pairs[1:] {
		if p.Liquidity.USD > best.Liquidity.USD {
			best = p
		}
	}

	price, err := strconv.ParseFloat(best.PriceNative, 64)
	if err != nil {
		return nil, fmt.Errorf("parse priceNative %q for %s: %w", best.PriceNative, address, err)
	}

	return &domain.PairSnapshot{
		BaseAddress:   best.BaseToken.Address,
		BaseSymbol:    best.BaseToken.Symbol,
		LiquidityUSD:  best.Liquidity.USD,
		VolumeH1:      best.Volume.H1,
		BuysH1:        best.Txns.H1.Buys,
		SellsH1:       best.Txns.H1.Sells,
		PriceChangeH1: best.PriceChange.H1,
		PriceNative:   price,
	}, nil
}

// get performs one rate-limited, breaker-guarded GET and returns the body.
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("rate limited (429)")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.RecordFeedRequest(endpoint, status, time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// validMintAddress reports whether s decodes as a 32-byte base58 value, the
// shape of a Solana mint address.
func validMintAddress(s string) bool {
	if s == "" {
		return false
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}
