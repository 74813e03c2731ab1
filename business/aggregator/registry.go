// Package aggregator wires the quote sources into a service. The
// source table is static: adding a source means adding a factory
// entry here.
package aggregator

import (
	"fmt"

	"github.com/yldfi/quotemux/business/aggregator/app"
	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/business/aggregator/infra/cowswap"
	"github.com/yldfi/quotemux/business/aggregator/infra/enso"
	"github.com/yldfi/quotemux/business/aggregator/infra/kyberswap"
	"github.com/yldfi/quotemux/business/aggregator/infra/lifi"
	"github.com/yldfi/quotemux/business/aggregator/infra/oneinch"
	"github.com/yldfi/quotemux/business/aggregator/infra/openocean"
	"github.com/yldfi/quotemux/business/aggregator/infra/velora"
	"github.com/yldfi/quotemux/business/aggregator/infra/zerox"
	"github.com/yldfi/quotemux/internal/config"
	"github.com/yldfi/quotemux/internal/logger"
	"github.com/yldfi/quotemux/internal/ratelimit"
)

// FetcherFactory builds a fetcher from its source config.
type FetcherFactory func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error)

// factories maps each source to its constructor.
var factories = map[domain.Source]FetcherFactory{
	domain.SourceOpenOcean: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return openocean.New(openocean.Config{BaseURL: sc.BaseURL, Timeout: sc.Timeout}, log)
	},
	domain.SourceKyberSwap: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return kyberswap.New(kyberswap.Config{BaseURL: sc.BaseURL, Timeout: sc.Timeout}, log)
	},
	domain.SourceZeroX: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return zerox.New(zerox.Config{BaseURL: sc.BaseURL, APIKey: sc.APIKey, Timeout: sc.Timeout}, log)
	},
	domain.SourceOneInch: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return oneinch.New(oneinch.Config{BaseURL: sc.BaseURL, APIKey: sc.APIKey, Timeout: sc.Timeout}, log)
	},
	domain.SourceCowSwap: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return cowswap.New(cowswap.Config{BaseURL: sc.BaseURL, Timeout: sc.Timeout}, log)
	},
	domain.SourceLiFi: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return lifi.New(lifi.Config{BaseURL: sc.BaseURL, APIKey: sc.APIKey, Timeout: sc.Timeout}, log)
	},
	domain.SourceVelora: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return velora.New(velora.Config{BaseURL: sc.BaseURL, Timeout: sc.Timeout}, log)
	},
	domain.SourceEnso: func(sc config.SourceConfig, log logger.LoggerInterface) (app.Fetcher, error) {
		return enso.New(enso.Config{BaseURL: sc.BaseURL, APIKey: sc.APIKey, Timeout: sc.Timeout}, log)
	},
}

// BuildFetchers constructs every enabled fetcher in dispatch order,
// each wrapped with a client-side rate limit and a circuit breaker.
func BuildFetchers(cfg *config.Config, log logger.LoggerInterface) ([]app.Fetcher, error) {
	var fetchers []app.Fetcher
	for _, src := range domain.AllSources {
		sc := cfg.Source(src.String())
		if !sc.Enabled {
			continue
		}
		factory, ok := factories[src]
		if !ok {
			return nil, fmt.Errorf("no factory registered for source %s", src)
		}
		f, err := factory(sc, log)
		if err != nil {
			return nil, fmt.Errorf("building %s fetcher: %w", src, err)
		}
		if sc.RequestsPerMinute > 0 {
			f = app.NewRateLimitedFetcher(f, ratelimit.New(sc.RequestsPerMinute))
		}
		fetchers = append(fetchers, app.NewBreakerFetcher(f))
	}
	return fetchers, nil
}

// NewService builds the quote service from configuration.
func NewService(cfg *config.Config, log logger.LoggerInterface) (*app.QuoteService, error) {
	fetchers, err := BuildFetchers(cfg, log)
	if err != nil {
		return nil, err
	}
	return app.NewQuoteService(log, fetchers...), nil
}
