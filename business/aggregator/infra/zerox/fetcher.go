// Package zerox implements a quote client for the 0x Swap API v2
// (permit2 price endpoint).
package zerox

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
	defaultBaseURL = "https://api.0x.org"
	defaultTimeout = 10 * time.Second
)

// Config holds client settings. APIKey is required by 0x.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Fetcher fetches quotes from the 0x Swap API.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates a 0x fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("zerox"),
		httpclient.WithRequestTimeout(cfg.Timeout),
		httpclient.WithHeaders(map[string]string{
			"0x-api-key": cfg.APIKey,
			"0x-version": "v2",
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client: client,
		log:    log,
		tracer: apm.NewTracer("zerox"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceZeroX
}

type priceResponse struct {
	LiquidityAvailable bool           `json:"liquidityAvailable"`
	BuyAmount          apijson.BigInt `json:"buyAmount"`
	Gas                apijson.Uint64 `json:"gas"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "zerox.price")
	defer span.End()

	r := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceZeroX)),
	).
		SetQueryParam("chainId", strconv.FormatUint(req.ChainID, 10)).
		SetQueryParam("sellToken", req.TokenIn).
		SetQueryParam("buyToken", req.TokenOut).
		SetQueryParam("sellAmount", req.AmountIn.String())
	if req.Sender != "" {
		r.SetQueryParam("taker", req.Sender)
	}

	var out priceResponse
	resp, err := r.SetResult(&out).Get(ctx, "/swap/permit2/price")
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "zerox price request", err)
	}

	if !out.LiquidityAvailable {
		return nil, apperror.New(apperror.CodeInsufficientLiquidity,
			apperror.WithContext("source=zerox"))
	}
	amountOut := out.BuyAmount.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=zerox"))
	}

	return &domain.Quote{
		Source:       domain.SourceZeroX,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: out.Gas.Ptr(),
		Raw:          resp.Body(),
	}, nil
}
