package testing

import (
	"fmt"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// NewPositionFixtures returns a small, varied set of validated positions.
// Optional fields are set on some entries and left nil on others.
func NewPositionFixtures() []domain.Position {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	ms := func(v float64) *float64 { return &v }

	return []domain.Position{
		{
			Symbol:     "BTCUSDT",
			Type:       domain.TypeLong,
			EntryPrice: 42150.5,
			Amount:     0.25,
			BaseAsset:  str("BTC"),
			QuoteAsset: str("USDT"),
			Leverage:   num(10),
			PnL:        num(312.4),
			User:       str("alice"),
			Timestamp:  ms(1700000000000),
		},
		{
			Symbol:     "ETHUSDT",
			Type:       domain.TypeShort,
			EntryPrice: 2250,
			Amount:     3,
			Leverage:   num(5),
			PnL:        num(-48.75),
			Timestamp:  ms(1700003600000),
		},
		{
			Symbol:     "SOLUSDT",
			Type:       "BUY",
			EntryPrice: 61.2,
			Amount:     40,
		},
		{
			Symbol:     "XRPUSDT",
			Type:       domain.TypeSell,
			EntryPrice: 0.6123,
			Amount:     5000,
			User:       str("bob"),
			Timestamp:  ms(1699990000000),
		},
	}
}

// NewGeneratedPositions returns n positions alternating long and short with
// symbols SYM00USDT, SYM01USDT, ... and entry prices 100, 101, ...
func NewGeneratedPositions(n int) []domain.Position {
	out := make([]domain.Position, 0, n)
	for i := 0; i < n; i++ {
		typ := domain.TypeLong
		if i%2 == 1 {
			typ = domain.TypeShort
		}
		out = append(out, domain.Position{
			Symbol:     fmt.Sprintf("SYM%02dUSDT", i),
			Type:       typ,
			EntryPrice: float64(100 + i),
			Amount:     1,
		})
	}
	return out
}

// RawPosition builds a decoded-JSON record with the required fields set
func RawPosition(symbol, typ string, entryPrice float64) map[string]any {
	return map[string]any{
		"symbol":     symbol,
		"type":       typ,
		"entryPrice": entryPrice,
		"amount":     1.0,
	}
}
