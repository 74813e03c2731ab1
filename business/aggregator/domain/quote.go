package domain

import (
	"encoding/json"
	"math/big"

	"github.com/shopspring/decimal"
)

// Quote is a single swap quote returned by one source. Amounts are
// raw big integers in each token's smallest unit; comparison never
// goes through floats.
type Quote struct {
	Source   Source
	ChainID  uint64
	TokenIn  string // hex address as sent to the source
	TokenOut string
	AmountIn *big.Int
	// AmountOut is the quoted output amount in the out token's
	// smallest unit.
	AmountOut *big.Int
	// EstimatedGas is nil when the source does not report one
	// (CoW Swap quotes settle via batch auction).
	EstimatedGas *uint64
	// Raw keeps the source's response body for callers that need
	// fields the common model drops.
	Raw json.RawMessage
}

// Rate returns amountOut/amountIn scaled by the given token decimals.
// Display only.
func (q *Quote) Rate(decimalsIn, decimalsOut uint8) decimal.Decimal {
	if q.AmountIn == nil || q.AmountIn.Sign() == 0 || q.AmountOut == nil {
		return decimal.Zero
	}
	in := decimal.NewFromBigInt(q.AmountIn, -int32(decimalsIn))
	out := decimal.NewFromBigInt(q.AmountOut, -int32(decimalsOut))
	return out.DivRound(in, 12)
}

// gasOrMax treats a missing gas estimate as worst for tie-breaking.
func (q *Quote) gasOrMax() uint64 {
	if q.EstimatedGas == nil {
		return ^uint64(0)
	}
	return *q.EstimatedGas
}
