// Package config loads the run configuration for the heatmap CLI and
// server: a JSON file layered over built-in defaults, with environment
// overrides read through viper.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/pricing"
)

// EnvPrefix namespaces environment overrides of file keys, with "." mapped
// to "_": HEATMAP_SPOT, HEATMAP_GRID_POINTS, ...
const EnvPrefix = "HEATMAP"

// Config struct
type Config struct {
	OptionType string  `mapstructure:"option_type"`    // "call" or "put", defaults to "call"
	Spot       float64 `mapstructure:"spot"`           // current underlying price S0
	Strike     float64 `mapstructure:"strike"`         // strike K
	Maturity   float64 `mapstructure:"maturity_years"` // time to maturity in years
	Volatility float64 `mapstructure:"volatility"`     // decimal, 0.2 = 20%
	Rate       float64 `mapstructure:"rate"`           // risk-free rate, decimal, may be negative
	Ticker     string  `mapstructure:"ticker"`         // if set, spot is seeded from the data provider
	Grid       Grid    `mapstructure:"grid"`           // heatmap sweep
	Payoff     int     `mapstructure:"payoff_points"`  // samples in the payoff diagram
	OutputDir  string  `mapstructure:"output_dir"`     // report directory
	Verbosity  int     `mapstructure:"verbosity"`      // 0=errors,1=info,2=debug,3=trace

	// Market data settings, normally supplied through the environment
	// under their conventional names (see marketEnv).
	MassiveAPIKey string `mapstructure:"massive_api_key"`
	SpotDataDir   string `mapstructure:"spot_data_dir"`
	RedisURL      string `mapstructure:"redis_url"`

	// explicit is the grid as configured, before ApplyGridDefaults.
	explicit Grid
}

// Grid holds the sweep bounds. Zero bounds are derived from Spot:
// [max(1, S0/2), 1.5·S0] for spot and [0.05, 0.80] for volatility.
type Grid struct {
	SpotMin float64 `mapstructure:"spot_min"`
	SpotMax float64 `mapstructure:"spot_max"`
	VolMin  float64 `mapstructure:"vol_min"`
	VolMax  float64 `mapstructure:"vol_max"`
	Points  int     `mapstructure:"points"`
}

const (
	DefaultSpot         = 100.0
	DefaultStrike       = 100.0
	DefaultMaturity     = 1.0
	DefaultVolatility   = 0.20
	DefaultRate         = 0.03
	DefaultVolMin       = 0.05
	DefaultVolMax       = 0.80
	DefaultPoints       = 80
	DefaultPayoffPoints = 200
	DefaultOutputDir    = "reports"
)

// marketEnv binds the market data keys to the variable names the
// providers are documented with. The first variable that is set wins.
var marketEnv = map[string][]string{
	"massive_api_key": {"MASSIVE_API_KEY", "POLYGON_API_KEY"},
	"spot_data_dir":   {"SPOT_DATA_DIR"},
	"redis_url":       {"REDIS_URL"},
}

// Default returns the configuration the heatmap opens with.
func Default() *Config {
	c := &Config{
		OptionType: string(pricing.Call),
		Spot:       DefaultSpot,
		Strike:     DefaultStrike,
		Maturity:   DefaultMaturity,
		Volatility: DefaultVolatility,
		Rate:       DefaultRate,
		Payoff:     DefaultPayoffPoints,
		OutputDir:  DefaultOutputDir,
		Verbosity:  1,
	}
	c.ApplyGridDefaults()
	return c
}

// Load reads a JSON config from path on top of Default, then applies
// environment overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return decode(v)
}

// Parse decodes JSON config bytes on top of Default, then applies
// environment overrides.
func Parse(b []byte) (*Config, error) {
	v := newViper()
	if err := v.ReadConfig(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range marketEnv {
		// BindEnv only errors when called without a key
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

// setDefaults registers every key so AutomaticEnv overrides reach Unmarshal.
// Grid bounds default to zero, meaning "derive from spot".
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("option_type", d.OptionType)
	v.SetDefault("spot", d.Spot)
	v.SetDefault("strike", d.Strike)
	v.SetDefault("maturity_years", d.Maturity)
	v.SetDefault("volatility", d.Volatility)
	v.SetDefault("rate", d.Rate)
	v.SetDefault("ticker", "")
	v.SetDefault("payoff_points", d.Payoff)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("verbosity", d.Verbosity)

	v.SetDefault("grid.spot_min", 0.0)
	v.SetDefault("grid.spot_max", 0.0)
	v.SetDefault("grid.vol_min", 0.0)
	v.SetDefault("grid.vol_max", 0.0)
	v.SetDefault("grid.points", 0)

	v.SetDefault("massive_api_key", "")
	v.SetDefault("spot_data_dir", "")
	v.SetDefault("redis_url", "")
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.explicit = c.Grid
	c.ApplyGridDefaults()
	return &c, nil
}

// ApplyGridDefaults fills unset grid bounds from the current spot.
func (c *Config) ApplyGridDefaults() {
	if c.Grid.SpotMin == 0 {
		c.Grid.SpotMin = math.Max(1, c.Spot*0.5)
	}
	if c.Grid.SpotMax == 0 {
		c.Grid.SpotMax = c.Spot * 1.5
	}
	if c.Grid.VolMin == 0 && c.Grid.VolMax == 0 {
		c.Grid.VolMin = DefaultVolMin
		c.Grid.VolMax = DefaultVolMax
	}
	if c.Grid.Points == 0 {
		c.Grid.Points = DefaultPoints
	}
}

// Recenter sets a new spot (e.g. from a provider lookup) and re-derives
// the grid bounds the configuration left unset. Bounds given explicitly
// are kept.
func (c *Config) Recenter(spot float64) {
	c.Spot = spot
	c.Grid = c.explicit
	c.ApplyGridDefaults()
}

// Params converts the config into pricing inputs.
func (c *Config) Params() (pricing.Params, error) {
	typ, err := pricing.ParseOptionType(c.OptionType)
	if err != nil {
		return pricing.Params{}, err
	}
	return pricing.Params{
		Spot:       c.Spot,
		Strike:     c.Strike,
		Maturity:   c.Maturity,
		Volatility: c.Volatility,
		Rate:       c.Rate,
		Type:       typ,
	}, nil
}

// GridSpec converts the grid section into a sweep specification.
func (c *Config) GridSpec() pricing.GridSpec {
	return pricing.GridSpec{
		SpotMin: c.Grid.SpotMin,
		SpotMax: c.Grid.SpotMax,
		VolMin:  c.Grid.VolMin,
		VolMax:  c.Grid.VolMax,
		Points:  c.Grid.Points,
	}
}

// Validate reports every problem at once rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error
	p, err := c.Params()
	if err != nil {
		errs = append(errs, err)
	} else if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.GridSpec().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Grid.SpotMin <= 0 {
		errs = append(errs, fmt.Errorf("%w: grid spot_min must be > 0", pricing.ErrInvalidGridSpec))
	}
	if c.Grid.VolMin < 0 {
		errs = append(errs, fmt.Errorf("%w: grid vol_min must be >= 0", pricing.ErrInvalidGridSpec))
	}
	if c.Payoff < 2 {
		errs = append(errs, fmt.Errorf("%w: payoff_points must be >= 2", pricing.ErrInvalidGridSpec))
	}
	return errors.Join(errs...)
}
