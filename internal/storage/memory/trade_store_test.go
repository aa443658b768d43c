package memory

import (
	"context"
	"testing"
	"time"

	"solana-sniper-terminal/internal/domain"
)

func testTrade(id string, exitTime time.Time) *domain.TradeRecord {
	return &domain.TradeRecord{
		TradeID:    id,
		Symbol:     "TOK",
		Address:    "mint-" + id,
		EntryPrice: 0.001,
		ExitPrice:  0.0012,
		Quantity:   500,
		PnL:        0.1,
		PnLPct:     20,
		Reason:     domain.ExitReasonTakeProfit,
		EntryTime:  exitTime.Add(-time.Minute),
		ExitTime:   exitTime,
	}
}

func TestTradeStore_InsertAndListRecent(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"t1", "t2", "t3"} {
		if err := store.Insert(ctx, testTrade(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert %s failed: %v", id, err)
		}
	}

	trades, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(trades))
	}
	// Newest exit first.
	want := []string{"t3", "t2", "t1"}
	for i, id := range want {
		if trades[i].TradeID != id {
			t.Errorf("trade %d: expected %s, got %s", i, id, trades[i].TradeID)
		}
	}
}

func TestTradeStore_ListRecentLimit(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		trade := testTrade(string(rune('a'+i)), base.Add(time.Duration(i)*time.Second))
		if err := store.Insert(ctx, trade); err != nil {
			t.Fatal(err)
		}
	}

	trades, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].TradeID != "e" || trades[1].TradeID != "d" {
		t.Errorf("unexpected order: %s, %s", trades[0].TradeID, trades[1].TradeID)
	}
}

func TestTradeStore_ListRecentEmpty(t *testing.T) {
	store := NewTradeStore()

	trades, err := store.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
}
