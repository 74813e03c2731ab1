// Package oneinch implements a quote client for the 1inch Swap API
// v6. An API key from the 1inch developer portal is required.
package oneinch

import (
	"context"
	"fmt"
	"time"

	"github.com/yldfi/quotemux/business/aggregator/app"
	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/business/aggregator/infra/apijson"
	"github.com/yldfi/quotemux/business/aggregator/infra/httperr"
	"github.com/yldfi/quotemux/internal/apm"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/httpclient"
	"github.com/yldfi/quotemux/internal/logger"
)

const (
	defaultBaseURL = "https://api.1inch.dev"
	defaultTimeout = 10 * time.Second
)

// Config holds client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Fetcher fetches quotes from 1inch.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates a 1inch fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("oneinch"),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{
			"Authorization": "Bearer " + cfg.APIKey,
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client: client,
		log:    log,
		tracer: apm.NewTracer("oneinch"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceOneInch
}

type quoteResponse struct {
	DstAmount apijson.BigInt `json:"dstAmount"`
	Gas       apijson.Uint64 `json:"gas"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "oneinch.quote")
	defer span.End()

	var out quoteResponse
	resp, err := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceOneInch)),
	).
		SetQueryParam("src", req.TokenIn).
		SetQueryParam("dst", req.TokenOut).
		SetQueryParam("amount", req.AmountIn.String()).
		SetQueryParam("includeGas", "true").
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/swap/v6.0/%d/quote", req.ChainID))
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "oneinch quote request", err)
	}

	amountOut := out.DstAmount.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=oneinch"))
	}

	return &domain.Quote{
		Source:       domain.SourceOneInch,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: out.Gas.Ptr(),
		Raw:          resp.Body(),
	}, nil
}
