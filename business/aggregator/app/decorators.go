package app

import (
	"context"

	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/circuitbreaker"
	"github.com/yldfi/quotemux/internal/ratelimit"
)

// RateLimitedFetcher wraps a Fetcher with a client-side rate limit so
// we stay under each source's published quota instead of discovering
// it via 429s.
type RateLimitedFetcher struct {
	inner   Fetcher
	limiter *ratelimit.Limiter
}

var _ Fetcher = (*RateLimitedFetcher)(nil)

// NewRateLimitedFetcher wraps inner with the given limiter.
func NewRateLimitedFetcher(inner Fetcher, limiter *ratelimit.Limiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{inner: inner, limiter: limiter}
}

func (f *RateLimitedFetcher) Source() domain.Source {
	return f.inner.Source()
}

func (f *RateLimitedFetcher) Fetch(ctx context.Context, req QuoteRequest) (*domain.Quote, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err),
			apperror.WithContext("source="+f.inner.Source().String()))
	}
	return f.inner.Fetch(ctx, req)
}

// BreakerFetcher wraps a Fetcher with a circuit breaker so a source
// that keeps failing is skipped quickly instead of eating its full
// timeout on every fan-out.
type BreakerFetcher struct {
	inner   Fetcher
	breaker *circuitbreaker.CircuitBreaker[*domain.Quote]
}

var _ Fetcher = (*BreakerFetcher)(nil)

// NewBreakerFetcher wraps inner with a breaker configured for its
// source name.
func NewBreakerFetcher(inner Fetcher) *BreakerFetcher {
	cfg := circuitbreaker.DefaultConfig(inner.Source().String())
	return &BreakerFetcher{
		inner:   inner,
		breaker: circuitbreaker.New[*domain.Quote](cfg),
	}
}

func (f *BreakerFetcher) Source() domain.Source {
	return f.inner.Source()
}

// CircuitOpen reports whether the breaker is currently rejecting
// calls. Health checks read this.
func (f *BreakerFetcher) CircuitOpen() bool {
	return f.breaker.IsOpen()
}

func (f *BreakerFetcher) Fetch(ctx context.Context, req QuoteRequest) (*domain.Quote, error) {
	if f.breaker.IsOpen() {
		return nil, apperror.New(apperror.CodeCircuitOpen,
			apperror.WithContext("source="+f.inner.Source().String()))
	}
	return f.breaker.Execute(func() (*domain.Quote, error) {
		return f.inner.Fetch(ctx, req)
	})
}
