// Package velora implements a quote client for the Velora (formerly
// ParaSwap) prices API.
package velora

import (
	"context"
	"strconv"
	"strings"
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
	defaultBaseURL = "https://api.paraswap.io"
	defaultTimeout = 10 * time.Second
)

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Fetcher fetches quotes from Velora.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates a Velora fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("velora"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client: client,
		log:    log,
		tracer: apm.NewTracer("velora"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceVelora
}

type pricesResponse struct {
	Error      string `json:"error"`
	PriceRoute struct {
		DestAmount apijson.BigInt `json:"destAmount"`
		GasCost    apijson.Uint64 `json:"gasCost"`
	} `json:"priceRoute"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "velora.prices")
	defer span.End()

	r := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceVelora)),
	).
		SetQueryParam("srcToken", req.TokenIn).
		SetQueryParam("destToken", req.TokenOut).
		SetQueryParam("amount", req.AmountIn.String()).
		SetQueryParam("network", strconv.FormatUint(req.ChainID, 10)).
		SetQueryParam("side", "SELL")
	if req.Sender != "" {
		r.SetQueryParam("userAddress", req.Sender)
	}

	var out pricesResponse
	resp, err := r.SetResult(&out).Get(ctx, "/prices")
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "velora prices request", err)
	}

	if out.Error != "" {
		code := apperror.CodeSourceAPIError
		if strings.Contains(strings.ToLower(out.Error), "no routes") {
			code = apperror.CodeNoRoute
		}
		err := apperror.New(code, apperror.WithContext("source=velora "+out.Error))
		span.NoticeError(err)
		return nil, err
	}
	amountOut := out.PriceRoute.DestAmount.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=velora"))
	}

	return &domain.Quote{
		Source:       domain.SourceVelora,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: out.PriceRoute.GasCost.Ptr(),
		Raw:          resp.Body(),
	}, nil
}
