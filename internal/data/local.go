package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/logger"
)

// SpotsFile is the file name the local provider reads inside its directory.
const SpotsFile = "spots.csv"

// localFileSpotProvider serves spots from <dir>/spots.csv, one
// "TICKER,price" row per line. The file is read once.
type localFileSpotProvider struct {
	dir       string
	secondary SpotProvider

	once  sync.Once
	spots map[string]float64
	err   error
}

// NewLocalFileSpotProvider convenience constructor.
func NewLocalFileSpotProvider(dir string, secondary SpotProvider) SpotProvider {
	return &localFileSpotProvider{dir: dir, secondary: secondary}
}

func (l *localFileSpotProvider) Name() string { return "local" }

func (l *localFileSpotProvider) Secondary() SpotProvider { return l.secondary }

func (l *localFileSpotProvider) load() {
	f, err := os.Open(filepath.Join(l.dir, SpotsFile))
	if err != nil {
		l.err = fmt.Errorf("open spots file: %w", err)
		return
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	records, err := r.ReadAll()
	if err != nil {
		l.err = fmt.Errorf("read spots csv: %w", err)
		return
	}

	l.spots = make(map[string]float64, len(records))
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil || price <= 0 {
			// header rows and bad prices are skipped
			continue
		}
		l.spots[NormalizeTicker(row[0])] = price
	}
	logger.Debugf("loaded %d spots from %s", len(l.spots), l.dir)
}

func (l *localFileSpotProvider) Spot(ctx context.Context, ticker string) (float64, error) {
	l.once.Do(l.load)
	if l.err != nil {
		logger.Errorf("%v", l.err)
		return fallback(ctx, l, ticker, l.err)
	}

	ticker = NormalizeTicker(ticker)
	if spot, ok := l.spots[ticker]; ok {
		return spot, nil
	}
	return fallback(ctx, l, ticker, fmt.Errorf("%w: %s not in %s", ErrNoSpot, ticker, SpotsFile))
}
