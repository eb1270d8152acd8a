// Package data supplies market inputs for the pricer.
//
// Only the underlying's spot price is sourced from outside; strike,
// maturity, volatility and rate are user inputs.
package data

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSpot is returned when a provider cannot produce a positive spot price.
var ErrNoSpot = errors.New("no spot price available")

// SpotProvider supplies the current price of an underlying.
type SpotProvider interface {
	// Spot returns the latest known price for ticker.
	Spot(ctx context.Context, ticker string) (float64, error)
	// Secondary returns the fallback provider, or nil.
	Secondary() SpotProvider
	Name() string
}

// ChainOptions selects the optional links of the provider chain.
type ChainOptions struct {
	LocalDir      string // directory holding spots.csv
	MassiveAPIKey string
}

// NewChain builds the provider chain the CLI uses:
//
//	local (LocalDir) -> massive (MassiveAPIKey) -> synthetic
//
// Links whose option is empty are left out; synthetic always terminates the chain.
func NewChain(opts ChainOptions, seed int64) SpotProvider {
	var prov SpotProvider = NewSyntheticSpotProvider(seed)
	if opts.MassiveAPIKey != "" {
		prov = NewMassiveSpotProvider(opts.MassiveAPIKey, prov)
	}
	if opts.LocalDir != "" {
		prov = NewLocalFileSpotProvider(opts.LocalDir, prov)
	}
	return prov
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// fallback delegates to secondary after a primary failure.
func fallback(ctx context.Context, prov SpotProvider, ticker string, cause error) (float64, error) {
	sec := prov.Secondary()
	if sec == nil {
		return 0, cause
	}
	spot, err := sec.Spot(ctx, ticker)
	if err != nil {
		return 0, errors.Join(cause, err)
	}
	return spot, nil
}
