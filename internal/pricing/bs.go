package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidParameter is returned when pricing inputs are outside the model's domain.
var ErrInvalidParameter = errors.New("invalid pricing parameter")

// OptionType selects the payoff of a European option.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType accepts "call"/"c" and "put"/"p" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return "", fmt.Errorf("%w: option type %q", ErrInvalidParameter, s)
}

// UnmarshalText lets JSON and text decoders accept every spelling
// ParseOptionType does.
func (t *OptionType) UnmarshalText(b []byte) error {
	typ, err := ParseOptionType(string(b))
	if err != nil {
		return err
	}
	*t = typ
	return nil
}

// Params holds the inputs of a single Black-Scholes evaluation.
// Rates and volatility are decimals (0.2 = 20%), maturity is in years.
type Params struct {
	Spot       float64    `json:"spot"`
	Strike     float64    `json:"strike"`
	Maturity   float64    `json:"maturity"`
	Volatility float64    `json:"volatility"`
	Rate       float64    `json:"rate"`
	Type       OptionType `json:"type"`
}

// Validate reports the first parameter outside the model's domain.
// Any sign of Rate is accepted.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"spot", p.Spot},
		{"strike", p.Strike},
		{"maturity", p.Maturity},
		{"volatility", p.Volatility},
		{"rate", p.Rate},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, f.name, f.v)
		}
	}

	switch {
	case p.Spot <= 0:
		return fmt.Errorf("%w: spot must be > 0, got %v", ErrInvalidParameter, p.Spot)
	case p.Strike <= 0:
		return fmt.Errorf("%w: strike must be > 0, got %v", ErrInvalidParameter, p.Strike)
	case p.Maturity < 0:
		return fmt.Errorf("%w: maturity must be >= 0, got %v", ErrInvalidParameter, p.Maturity)
	case p.Volatility < 0:
		return fmt.Errorf("%w: volatility must be >= 0, got %v", ErrInvalidParameter, p.Volatility)
	case p.Type != Call && p.Type != Put:
		return fmt.Errorf("%w: option type %q", ErrInvalidParameter, p.Type)
	}
	return nil
}

// Price calculates the price of a European option using the Black-Scholes model.
//
// When volatility or time to maturity is zero the option is worth its
// discounted intrinsic value (see Intrinsic); d1/d2 are never evaluated
// on that path. As σ√T grows without bound the call tends to S and the
// put to K·e^(-rT).
//
// Returns ErrInvalidParameter (wrapped) when p fails Validate.
func Price(p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if p.Maturity == 0 || p.Volatility == 0 {
		return Intrinsic(p), nil
	}

	discK := p.Strike * math.Exp(-p.Rate*p.Maturity)
	volSqrtT := p.Volatility * math.Sqrt(p.Maturity)
	if math.IsInf(volSqrtT, 1) {
		if p.Type == Call {
			return p.Spot, nil
		}
		return discK, nil
	}

	// σ² is never formed so d1 stays finite for any representable σ√T.
	d1 := math.Log(p.Spot/p.Strike)/volSqrtT + p.Rate*p.Maturity/volSqrtT + 0.5*volSqrtT
	d2 := d1 - volSqrtT

	var price float64
	if p.Type == Call {
		price = p.Spot*normCDF(d1) - discK*normCDF(d2)
	} else {
		price = discK*normCDF(-d2) - p.Spot*normCDF(-d1)
	}

	// deep out-of-the-money round-off can dip a few ulps below zero
	return math.Max(price, 0), nil
}

// Intrinsic returns the discounted intrinsic value of the option:
// max(S - K·e^(-rT), 0) for calls and max(K·e^(-rT) - S, 0) for puts.
// It is the limit of Price as volatility or maturity goes to zero.
func Intrinsic(p Params) float64 {
	discK := p.Strike * math.Exp(-p.Rate*p.Maturity)
	if p.Type == Call {
		return math.Max(p.Spot-discK, 0)
	}
	return math.Max(discK-p.Spot, 0)
}

// normCDF is the standard normal cumulative distribution function.
// distuv evaluates it through math.Erfc, which keeps full relative
// precision deep in the lower tail where 1+Erf loses it.
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
