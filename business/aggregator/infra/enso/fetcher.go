// Package enso implements a quote client for the Enso shortcuts
// route API.
package enso

import (
	"context"
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
	defaultBaseURL = "https://api.enso.finance"
	defaultTimeout = 10 * time.Second
	zeroAddress    = "0x0000000000000000000000000000000000000000"
)

// Config holds client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Fetcher fetches quotes from Enso.
type Fetcher struct {
	client httpclient.Client
	log    logger.LoggerInterface
	tracer apm.Tracer
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates an Enso fetcher.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithProviderName("enso"),
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
		tracer: apm.NewTracer("enso"),
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceEnso
}

type routeRequest struct {
	ChainID     uint64 `json:"chainId"`
	TokenIn     string `json:"tokenIn"`
	TokenOut    string `json:"tokenOut"`
	AmountIn    string `json:"amountIn"`
	FromAddress string `json:"fromAddress"`
}

type routeResponse struct {
	AmountOut apijson.BigInt `json:"amountOut"`
	Gas       apijson.Uint64 `json:"gas"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	ctx, span := f.tracer.StartSpanFromContext(ctx, "enso.route")
	defer span.End()

	from := req.Sender
	if from == "" {
		from = zeroAddress
	}

	var out routeResponse
	resp, err := f.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(httperr.Handler(domain.SourceEnso)),
	).
		SetBody(routeRequest{
			ChainID:     req.ChainID,
			TokenIn:     req.TokenIn,
			TokenOut:    req.TokenOut,
			AmountIn:    req.AmountIn.String(),
			FromAddress: from,
		}).
		SetResult(&out).
		Post(ctx, "/api/v1/shortcuts/route")
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "enso route request", err)
	}

	amountOut := out.AmountOut.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=enso"))
	}

	return &domain.Quote{
		Source:       domain.SourceEnso,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    amountOut,
		EstimatedGas: out.Gas.Ptr(),
		Raw:          resp.Body(),
	}, nil
}
