// Package cowswap implements a quote client for the CoW Protocol
// order book API. CoW quotes settle through batch auctions, so no gas
// estimate accompanies the quote.
package cowswap

import (
	"context"
	"encoding/json"
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
	defaultTimeout = 10 * time.Second
	// CoW requires a from address; quotes are account-independent
	// so the zero address works when the caller gave no sender.
	zeroAddress = "0x0000000000000000000000000000000000000000"
)

// networkSlugs maps chain IDs to CoW order book deployments.
var networkSlugs = map[uint64]string{
	1:     "mainnet",
	100:   "xdai",
	8453:  "base",
	42161: "arbitrum_one",
}

// Config holds client settings. BaseURL overrides the per-network
// default, mainly for tests.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Fetcher fetches quotes from the CoW Protocol order book.
type Fetcher struct {
	cfg    Config
	log    logger.LoggerInterface
	tracer apm.Tracer

	clients map[uint64]httpclient.Client
}

var _ app.Fetcher = (*Fetcher)(nil)

// New creates a CoW Swap fetcher with one client per supported
// network.
func New(cfg Config, log logger.LoggerInterface) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	clients := make(map[uint64]httpclient.Client, len(networkSlugs))
	for chainID, slug := range networkSlugs {
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("https://api.cow.fi/%s", slug)
		}
		client, err := httpclient.NewInstrumentedClient(
			httpclient.WithBaseURL(baseURL),
			httpclient.WithProviderName("cowswap"),
			httpclient.WithRequestTimeout(cfg.Timeout),
		)
		if err != nil {
			return nil, err
		}
		clients[chainID] = client
	}

	return &Fetcher{
		cfg:     cfg,
		log:     log,
		tracer:  apm.NewTracer("cowswap"),
		clients: clients,
	}, nil
}

// Source implements app.Fetcher.
func (f *Fetcher) Source() domain.Source {
	return domain.SourceCowSwap
}

type quoteRequest struct {
	SellToken           string `json:"sellToken"`
	BuyToken            string `json:"buyToken"`
	SellAmountBeforeFee string `json:"sellAmountBeforeFee"`
	Kind                string `json:"kind"`
	From                string `json:"from"`
}

type quoteResponse struct {
	Quote struct {
		BuyAmount apijson.BigInt `json:"buyAmount"`
	} `json:"quote"`
}

type errorResponse struct {
	ErrorType   string `json:"errorType"`
	Description string `json:"description"`
}

// Fetch implements app.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, req app.QuoteRequest) (*domain.Quote, error) {
	client, ok := f.clients[req.ChainID]
	if !ok {
		return nil, apperror.New(apperror.CodeUnsupportedChain,
			apperror.WithContext(fmt.Sprintf("source=cowswap chain_id=%d", req.ChainID)))
	}

	ctx, span := f.tracer.StartSpanFromContext(ctx, "cowswap.quote")
	defer span.End()

	from := req.Sender
	if from == "" {
		from = zeroAddress
	}

	var out quoteResponse
	resp, err := client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(errorHandler),
	).
		SetBody(quoteRequest{
			SellToken:           req.TokenIn,
			BuyToken:            req.TokenOut,
			SellAmountBeforeFee: req.AmountIn.String(),
			Kind:                "sell",
			From:                from,
		}).
		SetResult(&out).
		Post(ctx, "/api/v1/quote")
	if err != nil {
		span.NoticeError(err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.External(apperror.CodeSourceUnavailable, "cowswap quote request", err)
	}

	amountOut := out.Quote.BuyAmount.Value()
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("source=cowswap"))
	}

	return &domain.Quote{
		Source:    domain.SourceCowSwap,
		ChainID:   req.ChainID,
		TokenIn:   req.TokenIn,
		TokenOut:  req.TokenOut,
		AmountIn:  req.AmountIn,
		AmountOut: amountOut,
		Raw:       resp.Body(),
	}, nil
}

// errorHandler recognizes CoW's typed errors before falling back to
// the shared status mapping.
func errorHandler(statusCode int, body []byte) error {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil {
		switch e.ErrorType {
		case "NoLiquidity":
			return apperror.New(apperror.CodeInsufficientLiquidity,
				apperror.WithContext("source=cowswap "+e.Description))
		case "SellAmountDoesNotCoverFee":
			return apperror.New(apperror.CodeNoRoute,
				apperror.WithContext("source=cowswap "+e.Description))
		}
	}
	return httperr.Handler(domain.SourceCowSwap)(statusCode, body)
}
