package app

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/logger"
)

type fakeFetcher struct {
	source domain.Source
	out    *big.Int
	gas    *uint64
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeFetcher) Source() domain.Source { return f.source }

func (f *fakeFetcher) Fetch(ctx context.Context, req QuoteRequest) (*domain.Quote, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Quote{
		Source:       f.source,
		ChainID:      req.ChainID,
		TokenIn:      req.TokenIn,
		TokenOut:     req.TokenOut,
		AmountIn:     req.AmountIn,
		AmountOut:    f.out,
		EstimatedGas: f.gas,
	}, nil
}

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func validReq() QuoteRequest {
	return QuoteRequest{
		ChainID:  1,
		TokenIn:  "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		TokenOut: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		AmountIn: big.NewInt(1_000_000_000_000_000_000),
	}
}

func TestFetchQuotesAllStableOrder(t *testing.T) {
	fetchers := []Fetcher{
		&fakeFetcher{source: domain.SourceOpenOcean, out: big.NewInt(100), delay: 30 * time.Millisecond},
		&fakeFetcher{source: domain.SourceKyberSwap, err: errors.New("boom")},
		&fakeFetcher{source: domain.SourceZeroX, out: big.NewInt(300), delay: 5 * time.Millisecond},
	}
	svc := NewQuoteService(testLogger(), fetchers...)

	res, err := svc.FetchQuotesAll(context.Background(), validReq())
	if err != nil {
		t.Fatalf("FetchQuotesAll: %v", err)
	}
	if len(res.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(res.Results))
	}

	// Results follow fetcher order regardless of completion order.
	wantOrder := []domain.Source{domain.SourceOpenOcean, domain.SourceKyberSwap, domain.SourceZeroX}
	for i, want := range wantOrder {
		if res.Results[i].Source != want {
			t.Errorf("results[%d].Source = %s, want %s", i, res.Results[i].Source, want)
		}
	}

	if res.Aggregation.BestSource == nil || *res.Aggregation.BestSource != domain.SourceZeroX {
		t.Errorf("best = %v, want zerox", res.Aggregation.BestSource)
	}
	if res.Results[1].OK() || res.Results[1].Failure == nil {
		t.Error("kyberswap result should carry a failure")
	}
}

func TestFetchQuotesAllRunsConcurrently(t *testing.T) {
	// Four sources at 50ms each: serial would take ~200ms.
	var fetchers []Fetcher
	for _, src := range []domain.Source{
		domain.SourceOpenOcean, domain.SourceKyberSwap, domain.SourceZeroX, domain.SourceOneInch,
	} {
		fetchers = append(fetchers, &fakeFetcher{source: src, out: big.NewInt(1), delay: 50 * time.Millisecond})
	}
	svc := NewQuoteService(testLogger(), fetchers...)

	start := time.Now()
	res, err := svc.FetchQuotesAll(context.Background(), validReq())
	wall := time.Since(start)
	if err != nil {
		t.Fatalf("FetchQuotesAll: %v", err)
	}
	if wall > 150*time.Millisecond {
		t.Errorf("fan-out took %v, expected parallel execution near 50ms", wall)
	}
	if res.ElapsedMS > 150 {
		t.Errorf("ElapsedMS = %d, expected near the slowest source, not the sum", res.ElapsedMS)
	}
}

func TestFetchQuotesAllEveryResultHasLatency(t *testing.T) {
	fetchers := []Fetcher{
		&fakeFetcher{source: domain.SourceLiFi, out: big.NewInt(10), delay: 10 * time.Millisecond},
		&fakeFetcher{source: domain.SourceEnso, err: errors.New("http 502"), delay: 10 * time.Millisecond},
	}
	svc := NewQuoteService(testLogger(), fetchers...)

	res, err := svc.FetchQuotesAll(context.Background(), validReq())
	if err != nil {
		t.Fatalf("FetchQuotesAll: %v", err)
	}
	for _, r := range res.Results {
		if r.LatencyMS < 5 {
			t.Errorf("%s: latency_ms = %d, expected at least the simulated delay", r.Source, r.LatencyMS)
		}
	}
}

func TestFetchQuotesAllValidation(t *testing.T) {
	called := &fakeFetcher{source: domain.SourceOpenOcean, out: big.NewInt(1)}
	svc := NewQuoteService(testLogger(), called)

	tests := []struct {
		name   string
		mutate func(*QuoteRequest)
	}{
		{"zero chain", func(r *QuoteRequest) { r.ChainID = 0 }},
		{"bad token_in", func(r *QuoteRequest) { r.TokenIn = "weth" }},
		{"bad token_out", func(r *QuoteRequest) { r.TokenOut = "0x123" }},
		{"same tokens", func(r *QuoteRequest) { r.TokenOut = r.TokenIn }},
		{"nil amount", func(r *QuoteRequest) { r.AmountIn = nil }},
		{"zero amount", func(r *QuoteRequest) { r.AmountIn = big.NewInt(0) }},
		{"negative amount", func(r *QuoteRequest) { r.AmountIn = big.NewInt(-5) }},
		{"bad sender", func(r *QuoteRequest) { r.Sender = "not-an-address" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReq()
			tt.mutate(&req)
			if _, err := svc.FetchQuotesAll(context.Background(), req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if called.calls != 0 {
		t.Errorf("fetcher called %d times for invalid input, want 0", called.calls)
	}
}

func TestFetchQuotesParallelSubset(t *testing.T) {
	fetchers := []Fetcher{
		&fakeFetcher{source: domain.SourceOpenOcean, out: big.NewInt(100)},
		&fakeFetcher{source: domain.SourceKyberSwap, out: big.NewInt(200)},
		&fakeFetcher{source: domain.SourceZeroX, out: big.NewInt(300)},
	}
	svc := NewQuoteService(testLogger(), fetchers...)

	res, err := svc.FetchQuotesParallel(context.Background(), validReq(),
		[]domain.Source{domain.SourceZeroX, domain.SourceOpenOcean})
	if err != nil {
		t.Fatalf("FetchQuotesParallel: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(res.Results))
	}
	if res.Results[0].Source != domain.SourceZeroX || res.Results[1].Source != domain.SourceOpenOcean {
		t.Errorf("results out of caller order: %s, %s", res.Results[0].Source, res.Results[1].Source)
	}

	_, err = svc.FetchQuotesParallel(context.Background(), validReq(),
		[]domain.Source{domain.SourceVelora})
	if apperror.GetCode(err) != apperror.CodeUnknownSource {
		t.Errorf("unknown source error code = %s", apperror.GetCode(err))
	}
}

func TestFetchQuoteFromSource(t *testing.T) {
	svc := NewQuoteService(testLogger(),
		&fakeFetcher{source: domain.SourceCowSwap, out: big.NewInt(42)},
	)

	res, err := svc.FetchQuoteFromSource(context.Background(), domain.SourceCowSwap, validReq())
	if err != nil {
		t.Fatalf("FetchQuoteFromSource: %v", err)
	}
	if !res.OK() || res.Value.AmountOut.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("result = %+v", res)
	}

	_, err = svc.FetchQuoteFromSource(context.Background(), domain.SourceLiFi, validReq())
	if apperror.GetCode(err) != apperror.CodeUnknownSource {
		t.Errorf("unknown source error code = %s", apperror.GetCode(err))
	}
}

func TestFetchQuotesAllAllFailedIsNotAnError(t *testing.T) {
	svc := NewQuoteService(testLogger(),
		&fakeFetcher{source: domain.SourceOpenOcean, err: errors.New("down")},
		&fakeFetcher{source: domain.SourceLiFi, err: errors.New("down too")},
	)

	res, err := svc.FetchQuotesAll(context.Background(), validReq())
	if err != nil {
		t.Fatalf("all-failed fan-out should not error: %v", err)
	}
	if res.Aggregation.BestSource != nil {
		t.Errorf("best = %v, want nil", *res.Aggregation.BestSource)
	}
	if len(res.Aggregation.FailedSources) != 2 {
		t.Errorf("failed = %d, want 2", len(res.Aggregation.FailedSources))
	}
}

func TestFetchQuotesAllContextCancellation(t *testing.T) {
	svc := NewQuoteService(testLogger(),
		&fakeFetcher{source: domain.SourceOpenOcean, out: big.NewInt(1), delay: 5 * time.Second},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	res, err := svc.FetchQuotesAll(ctx, validReq())
	if err != nil {
		t.Fatalf("FetchQuotesAll: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancellation did not unblock the fan-out")
	}
	if res.Results[0].OK() {
		t.Error("cancelled source should report a failure")
	}
}
