package data

import (
	"context"
	"fmt"

	massive "github.com/massive-com/client-go/v2/rest"
	"github.com/massive-com/client-go/v2/rest/models"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/logger"
)

// previousCloser is the slice of the Massive REST client this provider uses.
type previousCloser interface {
	GetPreviousCloseAgg(ctx context.Context, params *models.GetPreviousCloseAggParams, opts ...models.RequestOption) (*models.GetPreviousCloseAggResponse, error)
}

// massiveSpotProvider reads the previous session's close from Massive.
type massiveSpotProvider struct {
	client    previousCloser
	secondary SpotProvider
}

// NewMassiveSpotProvider constructs a Massive-backed spot provider.
// secondary may be nil; when set it answers whenever Massive fails.
func NewMassiveSpotProvider(apiKey string, secondary SpotProvider) SpotProvider {
	logger.Infof("initializing Massive spot provider")
	return &massiveSpotProvider{client: massive.New(apiKey), secondary: secondary}
}

func (m *massiveSpotProvider) Name() string { return "massive" }

func (m *massiveSpotProvider) Secondary() SpotProvider { return m.secondary }

// Spot returns the adjusted previous close for ticker.
func (m *massiveSpotProvider) Spot(ctx context.Context, ticker string) (float64, error) {
	ticker = NormalizeTicker(ticker)
	logger.Debugf("massive previous close request: %s", ticker)

	params := models.GetPreviousCloseAggParams{Ticker: ticker}.WithAdjusted(true)
	res, err := m.client.GetPreviousCloseAgg(ctx, params)
	if err != nil {
		logger.Errorf("massive previous close %s: %v", ticker, err)
		return fallback(ctx, m, ticker, fmt.Errorf("massive %s: %w", ticker, err))
	}

	if len(res.Results) == 0 || res.Results[0].Close <= 0 {
		return fallback(ctx, m, ticker, fmt.Errorf("%w: massive returned no close for %s", ErrNoSpot, ticker))
	}

	last := res.Results[0].Close
	logger.Tracef("massive %s close=%.4f", ticker, last)
	return last, nil
}
