package asset_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yldfi/quotemux/internal/asset"
)

func mustResolve(t *testing.T, r *asset.Registry, chainID uint64, symbol string) *asset.Asset {
	t.Helper()
	a, err := r.Resolve(chainID, symbol)
	if err != nil {
		t.Fatalf("resolve %s on chain %d: %v", symbol, chainID, err)
	}
	return a
}

func TestAmountBasic(t *testing.T) {
	reg := asset.DefaultRegistry()
	eth := mustResolve(t, reg, asset.ChainEthereum, "ETH")

	oneETH := asset.MustNewAmount(eth, big.NewInt(1e18))

	if oneETH.IsZero() {
		t.Error("expected non-zero amount")
	}
	if !oneETH.ToDecimal().Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", oneETH.ToDecimal())
	}
	if oneETH.String() != "1 ETH" {
		t.Errorf("expected '1 ETH', got '%s'", oneETH.String())
	}
}

func TestAmountRejectsNegative(t *testing.T) {
	reg := asset.DefaultRegistry()
	eth := mustResolve(t, reg, asset.ChainEthereum, "ETH")

	if _, err := asset.NewAmount(eth, big.NewInt(-1)); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestAmountCannotMixAssets(t *testing.T) {
	reg := asset.DefaultRegistry()
	eth := mustResolve(t, reg, asset.ChainEthereum, "ETH")
	usdc := mustResolve(t, reg, asset.ChainEthereum, "USDC")

	oneETH := asset.MustNewAmount(eth, big.NewInt(1e18))
	oneUSDC := asset.MustNewAmount(usdc, big.NewInt(1e6))

	if _, err := oneETH.Add(oneUSDC); err == nil {
		t.Error("expected error when adding different assets")
	}
	if _, err := oneETH.Cmp(oneUSDC); err == nil {
		t.Error("expected error when comparing different assets")
	}
}

func TestAmountSubUnderflow(t *testing.T) {
	reg := asset.DefaultRegistry()
	eth := mustResolve(t, reg, asset.ChainEthereum, "ETH")

	one := asset.MustNewAmount(eth, big.NewInt(1e18))
	three := asset.MustNewAmount(eth, big.NewInt(3e18))

	if _, err := one.Sub(three); err == nil {
		t.Error("expected underflow error")
	}

	diff, err := three.Sub(one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diff.ToDecimal().Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected 2, got %s", diff.ToDecimal())
	}
}

func TestParseDecimal(t *testing.T) {
	reg := asset.DefaultRegistry()
	usdc := mustResolve(t, reg, asset.ChainEthereum, "USDC")

	tests := []struct {
		in      string
		wantRaw string
		wantErr bool
	}{
		{"1", "1000000", false},
		{"0.5", "500000", false},
		{"1250.123456", "1250123456", false},
		{"0.0000001", "", true}, // more precision than USDC carries
	}
	for _, tt := range tests {
		d, _ := decimal.NewFromString(tt.in)
		amt, err := asset.ParseDecimal(usdc, d)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimal(%s) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimal(%s): %v", tt.in, err)
			continue
		}
		if amt.Raw().String() != tt.wantRaw {
			t.Errorf("ParseDecimal(%s) = %s, want %s", tt.in, amt.Raw(), tt.wantRaw)
		}
	}
}

func TestParseString(t *testing.T) {
	reg := asset.DefaultRegistry()
	eth := mustResolve(t, reg, asset.ChainEthereum, "ETH")

	if _, err := asset.ParseString(eth, "123abc"); err == nil {
		t.Error("expected error for malformed integer")
	}
	amt, err := asset.ParseString(eth, "1000000000000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amt.String() != "1 ETH" {
		t.Errorf("got %s", amt.String())
	}
}

func TestRegistryResolveByAddress(t *testing.T) {
	reg := asset.DefaultRegistry()

	weth, err := reg.Resolve(asset.ChainEthereum, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	if err != nil {
		t.Fatalf("resolve by address: %v", err)
	}
	if weth.Symbol() != "WETH" {
		t.Errorf("symbol = %s, want WETH", weth.Symbol())
	}

	if _, err := reg.Resolve(asset.ChainEthereum, "0x1111111111111111111111111111111111111111"); err == nil {
		t.Error("expected error for unknown token address")
	}
}
