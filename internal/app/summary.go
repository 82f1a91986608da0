package app

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GeekNeuron/OpenPos/internal/domain"
)

// Summary aggregates the displayed positions for the status bar
type Summary struct {
	Shown        int
	Total        int
	Long         int // long and buy
	Short        int // short and sell
	TotalPnL     float64
	HasPnL       bool
	MeanLeverage float64
	HasLeverage  bool
	Notional     float64
}

// Summarize computes a Summary over shown. total is the unfiltered count.
// Positions without pnl or leverage are left out of those aggregates.
func Summarize(shown []domain.Position, total int) Summary {
	s := Summary{Shown: len(shown), Total: total}

	pnl := make([]float64, 0, len(shown))
	leverage := make([]float64, 0, len(shown))
	notional := make([]float64, 0, len(shown))

	for _, p := range shown {
		if p.IsBullish() {
			s.Long++
		} else {
			s.Short++
		}
		if p.PnL != nil {
			pnl = append(pnl, *p.PnL)
		}
		if p.Leverage != nil {
			leverage = append(leverage, *p.Leverage)
		}
		notional = append(notional, p.Notional())
	}

	if len(pnl) > 0 {
		s.TotalPnL = floats.Sum(pnl)
		s.HasPnL = true
	}
	if len(leverage) > 0 {
		s.MeanLeverage = stat.Mean(leverage, nil)
		s.HasLeverage = true
	}
	if len(notional) > 0 {
		s.Notional = floats.Sum(notional)
	}
	return s
}
