// Package main is the entry point for the quotemux CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/yldfi/quotemux/business/aggregator"
	"github.com/yldfi/quotemux/business/aggregator/app"
	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/business/chain/infra/ethereum"
	"github.com/yldfi/quotemux/internal/apm"
	"github.com/yldfi/quotemux/internal/asset"
	"github.com/yldfi/quotemux/internal/config"
	"github.com/yldfi/quotemux/internal/health"
	"github.com/yldfi/quotemux/internal/logger"
	"github.com/yldfi/quotemux/internal/metrics"
	"github.com/yldfi/quotemux/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type options struct {
	configPath  string
	chain       string
	tokenIn     string
	tokenOut    string
	amount      string
	sender      string
	sources     string
	jsonOut     bool
	watch       bool
	interval    time.Duration
	listSources bool
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.chain, "chain", "ethereum", "Chain name or numeric chain ID")
	flag.StringVar(&opts.tokenIn, "in", "", "Input token symbol or address")
	flag.StringVar(&opts.tokenOut, "out", "", "Output token symbol or address")
	flag.StringVar(&opts.amount, "amount", "1", "Amount to sell, in human units for known tokens or raw base units for addresses")
	flag.StringVar(&opts.sender, "sender", "", "Optional sender address")
	flag.StringVar(&opts.sources, "sources", "", "Comma-separated subset of sources to query")
	flag.BoolVar(&opts.jsonOut, "json", false, "Print results as JSON")
	flag.BoolVar(&opts.watch, "watch", false, "Keep refreshing quotes in a TUI")
	flag.DurationVar(&opts.interval, "interval", 10*time.Second, "Refresh interval in watch mode")
	flag.BoolVar(&opts.listSources, "list-sources", false, "List supported sources and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("quotemux %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}
	if opts.listSources {
		for _, src := range domain.AllSources {
			fmt.Printf("%-10s %s\n", src, src.DisplayName())
		}
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if opts.watch || opts.jsonOut {
		// Keep stdout/stderr clean for the TUI and JSON output.
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	}

	var traceProvider apm.TraceProvider
	var healthServer *health.Server
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.OTLPProvider, log))

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))

		healthServer = health.NewServer(cfg.Telemetry.HealthPort, version)
		if err := healthServer.Start(); err != nil {
			log.Warn(ctx, "failed to start health server", "error", err)
			healthServer = nil
		} else {
			defer healthServer.Stop(ctx)
		}
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	req, pairLabel, err := buildRequest(opts)
	if err != nil {
		return err
	}

	fetchers, err := aggregator.BuildFetchers(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build quote service: %w", err)
	}
	if healthServer != nil {
		for _, f := range fetchers {
			if bf, ok := f.(*app.BreakerFetcher); ok {
				name := "source:" + bf.Source().String()
				healthServer.RegisterCheck(name, func(context.Context) (bool, string) {
					if bf.CircuitOpen() {
						return false, "circuit open"
					}
					return true, "ok"
				})
			}
		}
	}
	svc := app.NewQuoteService(log, fetchers...)

	subset, err := parseSources(opts.sources)
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context) (*domain.QuoteResults, error) {
		if len(subset) > 0 {
			return svc.FetchQuotesParallel(ctx, req, subset)
		}
		return svc.FetchQuotesAll(ctx, req)
	}

	if opts.watch {
		uiOpts := ui.Options{
			PairLabel: pairLabel,
			Interval:  opts.interval,
			Fetch:     fetch,
		}
		if cfg.Ethereum.HTTPURL != "" && req.ChainID == cfg.Ethereum.ChainID {
			oracle, err := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(cfg.Ethereum.HTTPURL), log)
			if err == nil {
				defer oracle.Close()
			}
			if err == nil && oracle.Connect(ctx) == nil {
				uiOpts.Gas = func(ctx context.Context) (float64, error) {
					price, err := oracle.GetGasPrice(ctx)
					if err != nil {
						return 0, err
					}
					return price.Gwei(), nil
				}
			}
		}
		return ui.Run(uiOpts)
	}

	results, err := fetch(ctx)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return printJSON(results)
	}
	printText(ctx, cfg, log, req, results)
	return nil
}

// buildRequest turns CLI arguments into a validated quote request and
// a label for display.
func buildRequest(opts options) (app.QuoteRequest, string, error) {
	var req app.QuoteRequest

	chainID, err := parseChain(opts.chain)
	if err != nil {
		return req, "", err
	}
	if opts.tokenIn == "" || opts.tokenOut == "" {
		return req, "", fmt.Errorf("both -in and -out are required")
	}

	registry := asset.DefaultRegistry()

	tokenIn, decimalsIn, err := resolveToken(registry, chainID, opts.tokenIn)
	if err != nil {
		return req, "", err
	}
	tokenOut, _, err := resolveToken(registry, chainID, opts.tokenOut)
	if err != nil {
		return req, "", err
	}

	amountIn, err := parseAmount(opts.amount, decimalsIn)
	if err != nil {
		return req, "", err
	}

	req = app.QuoteRequest{
		ChainID:  chainID,
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn,
		Sender:   opts.sender,
	}

	chainLabel := asset.ChainName(chainID)
	if chainLabel == "" {
		chainLabel = strconv.FormatUint(chainID, 10)
	}
	label := fmt.Sprintf("%s %s -> %s on %s", opts.amount, opts.tokenIn, opts.tokenOut, chainLabel)
	return req, label, nil
}

func parseChain(s string) (uint64, error) {
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return id, nil
	}
	for _, id := range []uint64{
		asset.ChainEthereum, asset.ChainOptimism, asset.ChainPolygon,
		asset.ChainBase, asset.ChainArbitrum,
	} {
		if asset.ChainName(id) == strings.ToLower(s) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown chain: %q", s)
}

// resolveToken maps a symbol or address to (address, decimals). An
// address the registry does not know is passed through with a
// decimals of -1, which forces the amount to be given in raw units.
func resolveToken(registry *asset.Registry, chainID uint64, symbolOrAddress string) (string, int, error) {
	if a, err := registry.Resolve(chainID, symbolOrAddress); err == nil {
		if a.IsNative() {
			// Sources address native coins by the EEE sentinel.
			return "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", int(a.Decimals()), nil
		}
		return a.Address().Hex(), int(a.Decimals()), nil
	}
	if common.IsHexAddress(symbolOrAddress) {
		return common.HexToAddress(symbolOrAddress).Hex(), -1, nil
	}
	return "", 0, fmt.Errorf("unknown token %q on chain %d", symbolOrAddress, chainID)
}

func parseAmount(s string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("token decimals unknown, give -amount in raw base units (got %q)", s)
		}
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", s, decimals)
	}
	return scaled.BigInt(), nil
}

func parseSources(s string) ([]domain.Source, error) {
	if s == "" {
		return nil, nil
	}
	var out []domain.Source
	for _, part := range strings.Split(s, ",") {
		src, err := domain.ParseSource(part)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// jsonResult is the stable JSON shape for scripting.
type jsonResult struct {
	Best          *string          `json:"best"`
	Ranked        []string         `json:"ranked"`
	ElapsedMS     uint64           `json:"elapsed_ms"`
	Results       []jsonSourceItem `json:"results"`
	FailedSources []jsonFailure    `json:"failed_sources"`
}

type jsonSourceItem struct {
	Source       string  `json:"source"`
	AmountOut    *string `json:"amount_out,omitempty"`
	EstimatedGas *uint64 `json:"estimated_gas,omitempty"`
	LatencyMS    uint64  `json:"latency_ms"`
	Error        *string `json:"error,omitempty"`
}

type jsonFailure struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func printJSON(results *domain.QuoteResults) error {
	out := jsonResult{
		ElapsedMS: results.ElapsedMS,
		Ranked:    make([]string, 0, len(results.Aggregation.Ranked)),
	}
	if results.Aggregation.BestSource != nil {
		s := results.Aggregation.BestSource.String()
		out.Best = &s
	}
	for _, src := range results.Aggregation.Ranked {
		out.Ranked = append(out.Ranked, src.String())
	}
	for _, r := range results.Results {
		item := jsonSourceItem{Source: r.Source.String(), LatencyMS: r.LatencyMS}
		if r.OK() {
			s := r.Value.AmountOut.String()
			item.AmountOut = &s
			item.EstimatedGas = r.Value.EstimatedGas
		} else if r.Failure != nil {
			msg := r.Failure.Message
			item.Error = &msg
		}
		out.Results = append(out.Results, item)
	}
	for _, f := range results.Aggregation.FailedSources {
		out.FailedSources = append(out.FailedSources, jsonFailure{
			Source: f.Source.String(),
			Kind:   string(f.Reason.Kind),
			Reason: f.Reason.Message,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printText(ctx context.Context, cfg *config.Config, log *logger.Logger, req app.QuoteRequest, results *domain.QuoteResults) {
	fmt.Printf("%-12s %-30s %-10s %-10s\n", "SOURCE", "AMOUNT OUT", "GAS", "LATENCY")
	best := results.Aggregation.BestSource
	for _, r := range results.Results {
		if r.OK() {
			gas := "-"
			if r.Value.EstimatedGas != nil {
				gas = strconv.FormatUint(*r.Value.EstimatedGas, 10)
			}
			marker := ""
			if best != nil && r.Source == *best {
				marker = "  <- best"
			}
			fmt.Printf("%-12s %-30s %-10s %dms%s\n",
				r.Source, r.Value.AmountOut, gas, r.LatencyMS, marker)
		} else {
			reason := "failed"
			if r.Failure != nil {
				reason = string(r.Failure.Kind)
			}
			fmt.Printf("%-12s %-30s %-10s %dms\n", r.Source, "("+reason+")", "-", r.LatencyMS)
		}
	}
	fmt.Printf("\n%d/%d sources answered in %dms\n",
		results.SucceededCount(), len(results.Results), results.ElapsedMS)

	if best == nil {
		fmt.Println("no source returned a quote")
		return
	}

	// Price the winning quote's gas when an RPC node is configured.
	bestQuote := domain.BestQuote(results)
	if cfg.Ethereum.HTTPURL != "" && req.ChainID == cfg.Ethereum.ChainID &&
		bestQuote != nil && bestQuote.EstimatedGas != nil {
		oracle, err := ethereum.NewGasOracle(ethereum.DefaultGasOracleConfig(cfg.Ethereum.HTTPURL), log)
		if err == nil {
			defer oracle.Close()
			if err := oracle.Connect(ctx); err == nil {
				if cost, err := oracle.CostFor(ctx, *bestQuote.EstimatedGas); err == nil {
					fmt.Printf("estimated gas cost: %s native (%0.1f gwei)\n",
						cost.TotalNative().StringFixed(6), cost.Price.Gwei())
				}
			}
		}
	}
}
