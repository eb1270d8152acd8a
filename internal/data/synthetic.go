package data

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// synthSpotProvider generates a stable pseudo-random spot per ticker.
// The same seed and ticker always produce the same price.
type synthSpotProvider struct {
	seed int64
}

func NewSyntheticSpotProvider(seed int64) SpotProvider {
	return &synthSpotProvider{seed: seed}
}

func (s *synthSpotProvider) Name() string { return "synthetic" }

func (s *synthSpotProvider) Secondary() SpotProvider { return nil }

func (s *synthSpotProvider) Spot(_ context.Context, ticker string) (float64, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return 0, fmt.Errorf("%w: empty ticker", ErrNoSpot)
	}
	h := fnv.New64a()
	h.Write([]byte(ticker))
	r := rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))

	price := 100.0 + r.Float64()*200
	return math.Round(price*100) / 100, nil
}
