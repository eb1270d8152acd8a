package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/config"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/data"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/logger"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/pricing"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/report"
	"github.com/MOHTADI05/Black-Scholes-Pricing-Model/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config (defaults built in)")
	rest := flag.Bool("rest", false, "run as REST server")
	port := flag.String("port", ":8080", "REST server listen address")
	ticker := flag.String("ticker", "", "seed spot from the market data provider for this ticker")
	outDir := flag.String("out", "", "report directory (overrides config)")
	verbosity := flag.Int("v", -1, "verbosity 0=errors,1=info,2=debug,3=trace (overrides config)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[warn] loading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *ticker != "" {
		cfg.Ticker = *ticker
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *verbosity >= 0 {
		cfg.Verbosity = *verbosity
	}
	logger.SetVerbosity(cfg.Verbosity)

	spots := spotProvider(cfg)

	if *rest {
		engine := server.NewEngine(server.NewHandler(spots))
		logger.Infof("starting REST server on %s", *port)
		log.Fatal(engine.Run(*port))
		return
	}

	if cfg.Ticker != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		spot, err := spots.Spot(ctx, cfg.Ticker)
		cancel()
		if err != nil {
			log.Fatalf("spot for %s: %v", cfg.Ticker, err)
		}
		logger.Infof("%s spot %.4f from %s", data.NormalizeTicker(cfg.Ticker), spot, spots.Name())
		cfg.Recenter(spot)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid inputs:\n%v", err)
	}

	start := time.Now()
	if err := run(cfg); err != nil {
		log.Fatalf("pricing failed: %v", err)
	}
	logger.Infof("finished in %v, wrote reports to %s", time.Since(start), cfg.OutputDir)
}

func run(cfg *config.Config) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	price, err := pricing.Price(params)
	if err != nil {
		return err
	}
	fmt.Printf("%s S=%.4f K=%.4f T=%.4f σ=%.4f r=%.4f  price=%.4f\n",
		params.Type, params.Spot, params.Strike, params.Maturity, params.Volatility, params.Rate, price)

	spec := cfg.GridSpec()
	logger.Debugf("grid spot=[%.4f, %.4f] vol=[%.4f, %.4f] points=%d",
		spec.SpotMin, spec.SpotMax, spec.VolMin, spec.VolMax, spec.Points)
	grid, err := pricing.EvaluateGrid(params, spec)
	if err != nil {
		return err
	}
	if err := report.WriteTable(os.Stdout, grid); err != nil {
		return err
	}

	payoff, err := pricing.PayoffCurve(params, cfg.Payoff)
	if err != nil {
		return err
	}
	maxProfit := "unlimited"
	if payoff.MaxProfit != nil {
		maxProfit = fmt.Sprintf("%.2f", *payoff.MaxProfit)
	}
	fmt.Printf("premium=%.4f breakeven=%.2f max_profit=%s max_loss=%.2f\n",
		payoff.Premium, payoff.Breakeven, maxProfit, payoff.MaxLoss)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	snap := &report.Snapshot{Params: params, Price: price, Spec: spec, Grid: grid}
	if err := report.WriteJSON(snap, cfg.OutputDir); err != nil {
		return err
	}
	return report.WriteCSV(grid, cfg.OutputDir)
}

// spotProvider builds the local/Massive/synthetic chain from cfg and puts
// a redis cache in front when a redis URL is configured.
func spotProvider(cfg *config.Config) data.SpotProvider {
	prov := data.NewChain(data.ChainOptions{
		LocalDir:      cfg.SpotDataDir,
		MassiveAPIKey: cfg.MassiveAPIKey,
	}, time.Now().UnixNano())
	if cfg.RedisURL == "" {
		logger.Infof("%s spot provider enabled", prov.Name())
		return prov
	}
	client, err := data.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Errorf("redis url ignored: %v", err)
		return prov
	}
	prov = data.NewRedisCachedProvider(client, prov, 15*time.Minute)
	logger.Infof("%s spot provider enabled", prov.Name())
	return prov
}
