// Package apijson holds JSON field types shared by the source
// clients. Aggregator APIs disagree on whether amounts and gas are
// strings or numbers; these types accept both.
package apijson

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
)

// BigInt unmarshals a big integer from a JSON string or number.
type BigInt struct {
	big.Int
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		return nil
	}
	if _, ok := b.SetString(s, 10); !ok {
		// Some APIs emit large amounts in scientific notation.
		f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		f.Int(&b.Int)
	}
	return nil
}

// Value returns a copy of the parsed integer.
func (b *BigInt) Value() *big.Int {
	if b == nil {
		return nil
	}
	return new(big.Int).Set(&b.Int)
}

// Uint64 unmarshals an unsigned integer from a JSON string or number.
type Uint64 uint64

func (u *Uint64) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		return nil
	}
	// Tolerate decimal points from APIs that report gas as a float.
	if i := bytes.IndexByte([]byte(s), '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unsigned integer %q", s)
	}
	*u = Uint64(v)
	return nil
}

// Ptr returns the value as *uint64, or nil when zero. Sources that
// omit gas report zero; treating that as absent keeps tie-breaking
// honest.
func (u Uint64) Ptr() *uint64 {
	if u == 0 {
		return nil
	}
	v := uint64(u)
	return &v
}
