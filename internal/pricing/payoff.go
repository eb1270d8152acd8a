package pricing

import (
	"fmt"
	"math"
)

// PayoffDiagram is the profit/loss at expiry of one option bought (Long)
// or sold (Short) at today's model premium.
type PayoffDiagram struct {
	Spots     []float64 `json:"spots"`
	Long      []float64 `json:"long"`
	Short     []float64 `json:"short"`
	Premium   float64   `json:"premium"`
	Breakeven float64   `json:"breakeven"`
	MaxLoss   float64   `json:"max_loss"`
	// MaxProfit is nil when the long position's upside is unbounded (calls).
	MaxProfit *float64  `json:"max_profit"`
}

// Payoff returns the expiry P/L of a long option bought for premium.
func Payoff(spot, strike float64, t OptionType, premium float64) float64 {
	if t == Call {
		return math.Max(spot-strike, 0) - premium
	}
	return math.Max(strike-spot, 0) - premium
}

// PayoffCurve samples n spots over [max(1, K/2), 2K] and returns the
// expiry P/L of a long and short position priced at Price(p).
func PayoffCurve(p Params, n int) (*PayoffDiagram, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: points must be >= 2, got %d", ErrInvalidGridSpec, n)
	}
	premium, err := Price(p)
	if err != nil {
		return nil, err
	}

	spots := Linspace(math.Max(1, p.Strike*0.5), p.Strike*2, n)
	d := &PayoffDiagram{
		Spots:   spots,
		Long:    make([]float64, n),
		Short:   make([]float64, n),
		Premium: premium,
		MaxLoss: -premium,
	}
	for i, s := range spots {
		d.Long[i] = Payoff(s, p.Strike, p.Type, premium)
		d.Short[i] = -d.Long[i]
	}

	if p.Type == Call {
		d.Breakeven = p.Strike + premium
	} else {
		d.Breakeven = p.Strike - premium
		maxProfit := p.Strike - premium
		d.MaxProfit = &maxProfit
	}
	return d, nil
}
