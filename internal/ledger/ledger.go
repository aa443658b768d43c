// Package ledger manages the simulated balance, open positions, and the
// append-only trade history.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"solana-sniper-terminal/internal/domain"
	"solana-sniper-terminal/internal/observability"
	"solana-sniper-terminal/internal/storage"
)

// ErrZeroCostBasis means a stored position has a zero entry price or
// quantity. That state is unreachable through Enter, so revaluation refuses
// to divide by it and the caller must halt.
var ErrZeroCostBasis = errors.New("position has zero cost basis")

// Ledger coordinates balance, position, and trade stores. All monetary flow
// goes through it so the balance and the position set stay consistent.
type Ledger struct {
	balances  storage.BalanceStore
	positions storage.PositionStore
	trades    storage.TradeStore
	logger    *zap.SugaredLogger
}

// New creates a Ledger. A nil logger disables logging.
func New(balances storage.BalanceStore, positions storage.PositionStore, trades storage.TradeStore, logger *zap.SugaredLogger) *Ledger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Ledger{
		balances:  balances,
		positions: positions,
		trades:    trades,
		logger:    logger,
	}
}

// Enter opens a position of size settings.TradeSize at the given price.
// It refuses when a position for the address is already open
// (storage.ErrDuplicateKey) or the balance cannot cover the trade
// (storage.ErrInsufficientBalance). The debit happens before the insert;
// if the insert then fails the debit is rolled back.
func (l *Ledger) Enter(ctx context.Context, address, symbol string, price float64, settings domain.Settings) (*domain.Position, error) {
	if price <= 0 {
		return nil, fmt.Errorf("%w: entry price must be positive", storage.ErrInvalidInput)
	}

	if _, err := l.positions.GetByAddress(ctx, address); err == nil {
		return nil, storage.ErrDuplicateKey
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check open position: %w", err)
	}

	newBalance, err := l.balances.Adjust(ctx, -settings.TradeSize)
	if err != nil {
		return nil, fmt.Errorf("debit balance: %w", err)
	}

	pos := &domain.Position{
		Address:       address,
		Symbol:        symbol,
		AvgEntryPrice: price,
		Quantity:      settings.TradeSize / price,
		CurrentPrice:  price,
		EntryTime:     time.Now().UTC(),
	}

	if err := l.positions.Insert(ctx, pos); err != nil {
		// Refund so the balance doesn't leak on a lost race.
		if _, refundErr := l.balances.Adjust(ctx, settings.TradeSize); refundErr != nil {
			return nil, fmt.Errorf("insert position: %w (refund also failed: %v)", err, refundErr)
		}
		return nil, fmt.Errorf("insert position: %w", err)
	}

	observability.RecordPositionOpened()
	observability.UpdateBalance(newBalance)
	l.logger.Infow("position opened",
		"address", address,
		"symbol", symbol,
		"price", price,
		"quantity", pos.Quantity,
		"balance", newBalance,
	)
	return pos, nil
}

// Revalue recomputes the position's unrealized PnL at the current price and
// persists it. The returned value is the PnL as a fraction of cost basis
// (0.05 means +5%).
func (l *Ledger) Revalue(ctx context.Context, pos *domain.Position, currentPrice float64) (float64, error) {
	costBasis := pos.AvgEntryPrice * pos.Quantity
	if costBasis <= 0 {
		return 0, fmt.Errorf("revalue %s: %w", pos.Address, ErrZeroCostBasis)
	}

	pnl := (currentPrice - pos.AvgEntryPrice) * pos.Quantity
	pnlFrac := pnl / costBasis

	if err := l.positions.UpdateValuation(ctx, pos.Address, currentPrice, pnl, pnlFrac*100); err != nil {
		return 0, fmt.Errorf("persist valuation for %s: %w", pos.Address, err)
	}

	pos.CurrentPrice = currentPrice
	pos.PnL = pnl
	pos.PnLPct = pnlFrac * 100
	return pnlFrac, nil
}

// CheckExit applies the exit rules to a PnL fraction. The profit target is
// checked before the stop loss, so a price swing that somehow satisfies both
// settles as a win.
func CheckExit(settings domain.Settings, pnlFrac float64) (string, bool) {
	if pnlFrac >= settings.ProfitTarget {
		return domain.ExitReasonTakeProfit, true
	}
	if pnlFrac <= settings.StopLoss {
		return domain.ExitReasonStopLoss, true
	}
	return "", false
}

// Exit settles the position at the given price: the proceeds are credited,
// the position removed, and a trade record appended.
func (l *Ledger) Exit(ctx context.Context, pos *domain.Position, exitPrice float64, reason string) (*domain.TradeRecord, error) {
	proceeds := pos.Quantity * exitPrice
	costBasis := pos.AvgEntryPrice * pos.Quantity
	pnl := proceeds - costBasis

	var pnlPct float64
	if costBasis > 0 {
		pnlPct = pnl / costBasis * 100
	}

	newBalance, err := l.balances.Adjust(ctx, proceeds)
	if err != nil {
		return nil, fmt.Errorf("credit proceeds for %s: %w", pos.Address, err)
	}

	if err := l.positions.Delete(ctx, pos.Address); err != nil {
		return nil, fmt.Errorf("close position %s: %w", pos.Address, err)
	}

	trade := &domain.TradeRecord{
		TradeID:    uuid.New().String(),
		Symbol:     pos.Symbol,
		Address:    pos.Address,
		EntryPrice: pos.AvgEntryPrice,
		ExitPrice:  exitPrice,
		Quantity:   pos.Quantity,
		PnL:        pnl,
		PnLPct:     pnlPct,
		Reason:     reason,
		EntryTime:  pos.EntryTime,
		ExitTime:   time.Now().UTC(),
	}

	if err := l.trades.Insert(ctx, trade); err != nil {
		return nil, fmt.Errorf("record trade for %s: %w", pos.Address, err)
	}

	observability.RecordPositionClosed(reason)
	observability.UpdateBalance(newBalance)
	l.logger.Infow("position closed",
		"address", pos.Address,
		"symbol", pos.Symbol,
		"reason", reason,
		"entry_price", pos.AvgEntryPrice,
		"exit_price", exitPrice,
		"pnl", pnl,
		"pnl_pct", pnlPct,
		"balance", newBalance,
	)
	return trade, nil
}
