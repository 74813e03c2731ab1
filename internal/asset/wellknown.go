package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs for the networks quoted out of the box.
const (
	ChainEthereum uint64 = 1
	ChainOptimism uint64 = 10
	ChainPolygon  uint64 = 137
	ChainBase     uint64 = 8453
	ChainArbitrum uint64 = 42161
)

// ChainName returns the canonical lowercase name for a supported
// chain, or "" if the chain is not recognized.
func ChainName(chainID uint64) string {
	switch chainID {
	case ChainEthereum:
		return "ethereum"
	case ChainOptimism:
		return "optimism"
	case ChainPolygon:
		return "polygon"
	case ChainBase:
		return "base"
	case ChainArbitrum:
		return "arbitrum"
	}
	return ""
}

// IsSupportedChain reports whether the chain has a built-in profile.
func IsSupportedChain(chainID uint64) bool {
	return ChainName(chainID) != ""
}

func token(chainID uint64, addr, symbol, name string, decimals uint8) *Asset {
	return NewAssetWithName(NewTokenAssetID(chainID, common.HexToAddress(addr)), symbol, name, decimals)
}

func native(chainID uint64, symbol, name string) *Asset {
	return NewAssetWithName(NewNativeAssetID(chainID), symbol, name, 18)
}

// DefaultRegistry returns a registry preloaded with the majors on
// each supported chain. Addresses are the canonical deployments.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, a := range []*Asset{
		// Ethereum mainnet
		native(ChainEthereum, "ETH", "Ether"),
		token(ChainEthereum, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "WETH", "Wrapped Ether", 18),
		token(ChainEthereum, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", "USD Coin", 6),
		token(ChainEthereum, "0xdAC17F958D2ee523a2206206994597C13D831ec7", "USDT", "Tether USD", 6),
		token(ChainEthereum, "0x6B175474E89094C44Da98b954EedeAC495271d0F", "DAI", "Dai Stablecoin", 18),
		token(ChainEthereum, "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "WBTC", "Wrapped BTC", 8),

		// Optimism
		native(ChainOptimism, "ETH", "Ether"),
		token(ChainOptimism, "0x4200000000000000000000000000000000000006", "WETH", "Wrapped Ether", 18),
		token(ChainOptimism, "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85", "USDC", "USD Coin", 6),

		// Polygon
		native(ChainPolygon, "POL", "Polygon Ecosystem Token"),
		token(ChainPolygon, "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", "WPOL", "Wrapped POL", 18),
		token(ChainPolygon, "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", "USDC", "USD Coin", 6),
		token(ChainPolygon, "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619", "WETH", "Wrapped Ether", 18),

		// Base
		native(ChainBase, "ETH", "Ether"),
		token(ChainBase, "0x4200000000000000000000000000000000000006", "WETH", "Wrapped Ether", 18),
		token(ChainBase, "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", "USDC", "USD Coin", 6),

		// Arbitrum One
		native(ChainArbitrum, "ETH", "Ether"),
		token(ChainArbitrum, "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", "WETH", "Wrapped Ether", 18),
		token(ChainArbitrum, "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", "USDC", "USD Coin", 6),
	} {
		r.Register(a)
	}

	return r
}
