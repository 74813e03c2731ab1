// Package openocean implements a quote client for the OpenOcean v4
// swap API.
package openocean

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

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
	defaultBaseURL = "https://open-api.openocean.finance"
	defaultTimeout = 10 * time.Second
)

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Fetcher fetches quotes from OpenOcean.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates an OpenOcean fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("openocean"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client: client,
		log:    log,
		tracer: apm.NewTracer("openocean"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceOpenOcean
}

type quoteResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
	Data  struct {
		OutAmount    apijson.BigInt `json:"outAmount"`
		EstimatedGas apijson.Uint64 `json:"estimatedGas"`
	} `json:"data"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "openocean.quote")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("chain_id", int64(req.ChainID)),
		attribute.String("token_in", req.TokenIn),
		attribute.String("token_out", req.TokenOut),
	)

	var out quoteResponse
	resp, err := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceOpenOcean)),
	).
		SetQueryParam("inTokenAddress", req.TokenIn).
		SetQueryParam("outTokenAddress", req.TokenOut).
		SetQueryParam("amountDecimals", req.AmountIn.String()).
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/v4/%d/quote", req.ChainID))
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "openocean quote request", err)
	}

	// OpenOcean signals failures in the body with HTTP 200.
	if out.Code != 200 {
		err := apperror.New(apperror.CodeSourceAPIError,
			apperror.WithContext(fmt.Sprintf("source=openocean code=%d error=%s", out.Code, out.Error)))
		span.NoticeError(err)
		return nil, err
	}
	amountOut := out.Data.OutAmount.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute,
			apperror.WithContext("source=openocean"))
	}

	return &domain.Quote{
		Source:       domain.SourceOpenOcean,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: out.Data.EstimatedGas.Ptr(),
		Raw:          resp.Body(),
	}, nil
}
