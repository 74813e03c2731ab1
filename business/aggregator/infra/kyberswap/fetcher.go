// Package kyberswap implements a quote client for the KyberSwap
// Aggregator route API.
package kyberswap

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
	defaultBaseURL = "https://aggregator-api.kyberswap.com"
	defaultTimeout = 10 * time.Second
)

// chainSlugs maps chain IDs to the path segment Kyber expects.
var chainSlugs = map[uint64]string{
	1:     "ethereum",
	10:    "optimism",
	137:   "polygon",
	8453:  "base",
	42161: "arbitrum",
}

// Config holds client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Fetcher fetches quotes from KyberSwap.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates a KyberSwap fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("kyberswap"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client: client,
		log:    log,
		tracer: apm.NewTracer("kyberswap"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceKyberSwap
}

type routeResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		RouteSummary struct {
			AmountOut apijson.BigInt `json:"amountOut"`
			Gas       apijson.Uint64 `json:"gas"`
		} `json:"routeSummary"`
	} `json:"data"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	slug, ok := chainSlugs[req.ChainID]
	if !ok {
		return nil, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext(fmt.Sprintf("source=kyberswap chain_id=%d", req.ChainID)))
	}

	ctx, span := f.tracer.StartSpanFromContext(ctx, "kyberswap.routes")
	defer span.End()

	var out routeResponse
	resp, err := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceKyberSwap)),
	).
		SetQueryParam("tokenIn", req.TokenIn).
		SetQueryParam("tokenOut", req.TokenOut).
		SetQueryParam("amountIn", req.AmountIn.String()).
		SetResult(&out).
		Get(ctx, fmt.Sprintf("/%s/api/v1/routes", slug))
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "kyberswap route request", err)
	}

	// code 0 is success; 4008 means no route between the pair.
	if out.Code != 0 {
		code := apperror.CodeSourceAPIError
		if out.Code == 4008 {
			code = apperror.CodeNoRoute
		}
		err := apperror.New(code,
			apperror.WithContext(fmt.Sprintf("source=kyberswap code=%d message=%s", out.Code, out.Message)))
		span.NoticeError(err)
		return nil, err
	}
	amountOut := out.Data.RouteSummary.AmountOut.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=kyberswap"))
	}

	return &domain.Quote{
		Source:       domain.SourceKyberSwap,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: out.Data.RouteSummary.Gas.Ptr(),
		Raw:          resp.Body(),
	}, nil
}
