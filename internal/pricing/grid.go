package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidGridSpec is returned for sweeps with inverted bounds or too few points.
var ErrInvalidGridSpec = errors.New("invalid grid spec")

// GridSpec describes a spot × volatility sweep with Points values per axis.
type GridSpec struct {
	SpotMin float64 `json:"spot_min"`
	SpotMax float64 `json:"spot_max"`
	VolMin  float64 `json:"vol_min"`
	VolMax  float64 `json:"vol_max"`
	Points  int     `json:"points"`
}

func (g GridSpec) Validate() error {
	if g.Points < 2 {
		return fmt.Errorf("%w: points must be >= 2, got %d", ErrInvalidGridSpec, g.Points)
	}
	for _, v := range []float64{g.SpotMin, g.SpotMax, g.VolMin, g.VolMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite", ErrInvalidGridSpec)
		}
	}
	if g.SpotMin >= g.SpotMax {
		return fmt.Errorf("%w: spot range [%v, %v]", ErrInvalidGridSpec, g.SpotMin, g.SpotMax)
	}
	if g.VolMin >= g.VolMax {
		return fmt.Errorf("%w: volatility range [%v, %v]", ErrInvalidGridSpec, g.VolMin, g.VolMax)
	}
	return nil
}

// Grid is the result of a sweep. Matrix[i][j] is the price at
// (VolAxis[i], SpotAxis[j]); both axes ascend.
type Grid struct {
	Matrix   [][]float64 `json:"matrix"`
	SpotAxis []float64   `json:"spot_axis"`
	VolAxis  []float64   `json:"vol_axis"`
}

// Linspace returns n evenly spaced values over [min, max].
// Both endpoints are returned exactly.
func Linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	out := floats.Span(make([]float64, n), min, max)
	out[n-1] = max
	return out
}

// EvaluateGrid prices base at every (volatility, spot) pair of spec.
// Strike, maturity, rate and option type are taken from base unchanged.
//
// The first cell that fails validation aborts the sweep; no partial
// matrix is returned.
func EvaluateGrid(base Params, spec GridSpec) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	spots := Linspace(spec.SpotMin, spec.SpotMax, spec.Points)
	vols := Linspace(spec.VolMin, spec.VolMax, spec.Points)

	matrix := make([][]float64, len(vols))
	for i, vol := range vols {
		row := make([]float64, len(spots))
		for j, spot := range spots {
			p := base
			p.Spot = spot
			p.Volatility = vol
			price, err := Price(p)
			if err != nil {
				return nil, fmt.Errorf("cell (vol=%v, spot=%v): %w", vol, spot, err)
			}
			row[j] = price
		}
		matrix[i] = row
	}

	return &Grid{Matrix: matrix, SpotAxis: spots, VolAxis: vols}, nil
}
