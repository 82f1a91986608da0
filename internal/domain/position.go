// Package domain holds the position model shared by the validation, filtering
// and rendering layers. It has no infrastructure dependencies.
package domain

import (
	"math"
	"strings"
	"time"
)

// Position types accepted from the API (compared case-insensitively)
const (
	TypeLong  = "long"
	TypeShort = "short"
	TypeBuy   = "buy"
	TypeSell  = "sell"
)

// PositionTypes lists the allowed position types in display order
var PositionTypes = []string{TypeLong, TypeShort, TypeBuy, TypeSell}

// Position is one exchange trading position as returned by the API.
// Optional fields are nil when the API omitted them.
type Position struct {
	Symbol     string   `json:"symbol"`
	Type       string   `json:"type"`
	EntryPrice float64  `json:"entryPrice"`
	Amount     float64  `json:"amount"`
	BaseAsset  *string  `json:"baseAsset,omitempty"`
	QuoteAsset *string  `json:"quoteAsset,omitempty"`
	Leverage   *float64 `json:"leverage,omitempty"`
	PnL        *float64 `json:"pnl,omitempty"`
	User       *string  `json:"user,omitempty"`
	Timestamp  *float64 `json:"timestamp,omitempty"` // Unix milliseconds, kept as sent
}

// NormalizedType returns the lowercase position type
func (p Position) NormalizedType() string {
	return strings.ToLower(p.Type)
}

// IsBullish reports whether the position profits from a rising price
func (p Position) IsBullish() bool {
	t := p.NormalizedType()
	return t == TypeLong || t == TypeBuy
}

// Notional returns entry price times amount
func (p Position) Notional() float64 {
	return p.EntryPrice * p.Amount
}

// maxTimestampMillis bounds representable opening times (±100,000,000 days)
const maxTimestampMillis = 8.64e15

// OpenedAt converts Timestamp to a time. It reports false when the timestamp
// is missing, not finite or outside the representable range.
func (p Position) OpenedAt() (time.Time, bool) {
	if p.Timestamp == nil {
		return time.Time{}, false
	}
	ms := *p.Timestamp
	if math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxTimestampMillis {
		return time.Time{}, false
	}
	whole, frac := math.Modf(ms)
	return time.UnixMilli(int64(whole)).Add(time.Duration(frac * float64(time.Millisecond))), true
}

// ValidationResult is the outcome of validating a single raw record
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// BatchValidationResult is the outcome of validating a list of raw records.
// IsValid reports structural validity only (the input was an array);
// individual invalid records are excluded from ValidatedPositions.
type BatchValidationResult struct {
	IsValid            bool
	ValidatedPositions []Position
	Errors             []string
}
