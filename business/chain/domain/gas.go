// Package domain contains the core domain types for the chain context.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// GasPrice is a point-in-time gas price observation.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	return &GasPrice{
		Wei:       new(big.Int).Set(wei),
		Timestamp: time.Now(),
	}
}

// Gwei returns the price in gwei for display.
func (p *GasPrice) Gwei() float64 {
	gwei := new(big.Float).SetInt(p.Wei)
	gwei.Quo(gwei, big.NewFloat(1e9))
	f, _ := gwei.Float64()
	return f
}

// GasCost is the projected cost of executing a swap at a given gas
// price.
type GasCost struct {
	GasLimit uint64
	Price    *GasPrice
	TotalWei *big.Int
}

// NewGasCost computes the total cost of gasLimit units at price.
func NewGasCost(gasLimit uint64, price *GasPrice) *GasCost {
	return &GasCost{
		GasLimit: gasLimit,
		Price:    price,
		TotalWei: new(big.Int).Mul(price.Wei, new(big.Int).SetUint64(gasLimit)),
	}
}

// TotalNative returns the cost in the chain's native coin (18
// decimals). Display only.
func (c *GasCost) TotalNative() decimal.Decimal {
	return decimal.NewFromBigInt(c.TotalWei, -18)
}
