package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPosition_NormalizedType(t *testing.T) {
	assert.Equal(t, "long", Position{Type: "LONG"}.NormalizedType())
	assert.Equal(t, "sell", Position{Type: "Sell"}.NormalizedType())
}

func TestPosition_IsBullish(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{"long", true},
		{"BUY", true},
		{"short", false},
		{"sell", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, Position{Type: tt.typ}.IsBullish())
		})
	}
}

func TestPosition_Notional(t *testing.T) {
	p := Position{EntryPrice: 50000, Amount: 0.5}
	assert.InDelta(t, 25000.0, p.Notional(), 1e-9)
}

func TestPosition_OpenedAt(t *testing.T) {
	ms := func(v float64) *float64 { return &v }

	got, ok := Position{Timestamp: ms(1700000000000)}.OpenedAt()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), got.UTC())

	got, ok = Position{Timestamp: ms(1.5)}.OpenedAt()
	assert.True(t, ok)
	assert.Equal(t, int64(1500000), got.UnixNano())

	for _, v := range []float64{1e19, -1e19, math.NaN(), math.Inf(1)} {
		_, ok := Position{Timestamp: ms(v)}.OpenedAt()
		assert.False(t, ok, "%v", v)
	}

	_, ok = Position{}.OpenedAt()
	assert.False(t, ok)
}
