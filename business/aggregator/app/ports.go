// Package app contains application services and port definitions for
// the aggregator context.
package app

import (
	"context"
	"math/big"

	"github.com/yldfi/quotemux/business/aggregator/domain"
)

// QuoteRequest describes one swap quote to fetch. Token fields are
// hex addresses; AmountIn is in the in token's smallest unit.
type QuoteRequest struct {
	ChainID  uint64
	TokenIn  string
	TokenOut string
	AmountIn *big.Int
	// Sender is optional. Sources that simulate the swap from an
	// account use it; the rest ignore it.
	Sender string
}

// Fetcher is the port each quote source implements.
type Fetcher interface {
	// Source identifies which aggregator this fetcher queries.
	Source() domain.Source

	// Fetch requests a quote. Implementations return domain
	// errors (apperror codes) so failures classify cleanly.
	Fetch(ctx context.Context, req QuoteRequest) (*domain.Quote, error)
}
