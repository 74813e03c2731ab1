package asset

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is an immutable quantity of a specific asset, stored as a
// big.Int in the asset's smallest unit (wei, token base units).
// Arithmetic across different assets is rejected.
type Amount struct {
	asset *Asset
	value *big.Int
}

// NewAmount creates an Amount from a raw value in smallest units.
// The value is copied; the caller keeps ownership of v.
func NewAmount(a *Asset, v *big.Int) (Amount, error) {
	if a == nil {
		return Amount{}, fmt.Errorf("asset cannot be nil")
	}
	if v == nil {
		return Amount{}, fmt.Errorf("value cannot be nil")
	}
	if v.Sign() < 0 {
		return Amount{}, fmt.Errorf("amount cannot be negative: %s", v.String())
	}
	return Amount{asset: a, value: new(big.Int).Set(v)}, nil
}

// MustNewAmount is like NewAmount but panics on error. For tests and
// well-known constants.
func MustNewAmount(a *Asset, v *big.Int) Amount {
	amt, err := NewAmount(a, v)
	if err != nil {
		panic(err)
	}
	return amt
}

// Zero returns a zero Amount of the given asset.
func Zero(a *Asset) Amount {
	return Amount{asset: a, value: new(big.Int)}
}

// ParseString parses a raw integer string in smallest units.
func ParseString(a *Asset, s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("invalid amount string: %q", s)
	}
	return NewAmount(a, v)
}

// ParseDecimal converts a human-readable decimal quantity (e.g. "1.5"
// ETH) into smallest units using the asset's decimals.
func ParseDecimal(a *Asset, d decimal.Decimal) (Amount, error) {
	if a == nil {
		return Amount{}, fmt.Errorf("asset cannot be nil")
	}
	scaled := d.Shift(int32(a.Decimals()))
	if !scaled.IsInteger() {
		return Amount{}, fmt.Errorf("amount %s has more than %d decimal places", d.String(), a.Decimals())
	}
	return NewAmount(a, scaled.BigInt())
}

// Asset returns the asset this amount denominates.
func (m Amount) Asset() *Asset {
	return m.asset
}

// Raw returns a copy of the underlying value in smallest units.
func (m Amount) Raw() *big.Int {
	return new(big.Int).Set(m.value)
}

// IsZero reports whether the amount is zero.
func (m Amount) IsZero() bool {
	return m.value.Sign() == 0
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Amount) IsPositive() bool {
	return m.value.Sign() > 0
}

// Cmp compares two amounts of the same asset: -1 if m < other, 0 if
// equal, +1 if m > other.
func (m Amount) Cmp(other Amount) (int, error) {
	if err := m.checkSameAsset(other); err != nil {
		return 0, err
	}
	return m.value.Cmp(other.value), nil
}

// Equals reports whether two amounts have the same asset and value.
func (m Amount) Equals(other Amount) bool {
	if m.asset == nil || other.asset == nil {
		return m.asset == other.asset
	}
	return m.asset.ID().Equals(other.asset.ID()) && m.value.Cmp(other.value) == 0
}

// Add returns m + other. Both amounts must share the same asset.
func (m Amount) Add(other Amount) (Amount, error) {
	if err := m.checkSameAsset(other); err != nil {
		return Amount{}, err
	}
	return Amount{asset: m.asset, value: new(big.Int).Add(m.value, other.value)}, nil
}

// Sub returns m - other, rejecting negative results.
func (m Amount) Sub(other Amount) (Amount, error) {
	if err := m.checkSameAsset(other); err != nil {
		return Amount{}, err
	}
	r := new(big.Int).Sub(m.value, other.value)
	if r.Sign() < 0 {
		return Amount{}, fmt.Errorf("subtraction underflow: %s - %s", m.value, other.value)
	}
	return Amount{asset: m.asset, value: r}, nil
}

// ToDecimal converts to a human-readable decimal using the asset's
// decimals. Display only; never feed this back into comparisons.
func (m Amount) ToDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(m.value, 0).Shift(-int32(m.asset.Decimals()))
}

// String renders the amount as "<decimal> <SYMBOL>".
func (m Amount) String() string {
	if m.asset == nil {
		return "<nil amount>"
	}
	return fmt.Sprintf("%s %s", m.ToDecimal().String(), m.asset.Symbol())
}

func (m Amount) checkSameAsset(other Amount) error {
	if m.asset == nil || other.asset == nil {
		return fmt.Errorf("amount has no asset")
	}
	if !m.asset.ID().Equals(other.asset.ID()) {
		return fmt.Errorf("asset mismatch: %s vs %s", m.asset.ID(), other.asset.ID())
	}
	return nil
}
