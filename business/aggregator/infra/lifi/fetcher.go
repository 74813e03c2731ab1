// Package lifi implements a quote client for the LI.FI quote API,
// requesting same-chain swaps only.
package lifi

import (
	"context"
	"strconv"
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
	defaultBaseURL = "https://li.quest"
	defaultTimeout = 10 * time.Second
	zeroAddress    = "0x0000000000000000000000000000000000000000"
)

// Config holds client settings. APIKey raises the rate limit but is
// optional.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Fetcher fetches quotes from LI.FI.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates a LI.FI fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := []httpclient.ClientOption{
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("lifi"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.APIKey != "" {
		opts = append(opts, httpclient.WithHeaders(map[string]string{
			"x-lifi-api-key": cfg.APIKey,
		}))
	}

	client, err := httpclient.NewInstrumentedClient(opts...)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client: client,
		log:    log,
		tracer: apm.NewTracer("lifi"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceLiFi
}

type quoteResponse struct {
	Estimate struct {
		ToAmount apijson.BigInt `json:"toAmount"`
		GasCosts []struct {
			Estimate apijson.Uint64 `json:"estimate"`
		} `json:"gasCosts"`
	} `json:"estimate"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "lifi.quote")
	defer span.End()

	from := req.Sender
	if from == "" {
		from = zeroAddress
	}

	chain := strconv.FormatUint(req.ChainID, 10)

	var out quoteResponse
	resp, err := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceLiFi)),
	).
		SetQueryParam("fromChain", chain).
		SetQueryParam("toChain", chain).
		SetQueryParam("fromToken", req.TokenIn).
		SetQueryParam("toToken", req.TokenOut).
		SetQueryParam("fromAmount", req.AmountIn.String()).
		SetQueryParam("fromAddress", from).
		SetResult(&out).
		Get(ctx, "/v1/quote")
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "lifi quote request", err)
	}

	amountOut := out.Estimate.ToAmount.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=lifi"))
	}

	var gas *uint64
	if len(out.Estimate.GasCosts) > 0 {
		gas = out.Estimate.GasCosts[0].Estimate.Ptr()
	}

	return &domain.Quote{
		Source:       domain.SourceLiFi,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: gas,
		Raw:          resp.Body(),
	}, nil
}
