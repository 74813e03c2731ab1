package asset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is a thread-safe in-memory catalog of known assets, looked
// up by ID or by (chainID, symbol).
type Registry struct {
	mu       sync.RWMutex
	byID     map[AssetID]*Asset
	bySymbol map[symbolKey]*Asset
}

type symbolKey struct {
	chainID uint64
	symbol  string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[AssetID]*Asset),
		bySymbol: make(map[symbolKey]*Asset),
	}
}

// Register adds an asset. Later registrations with the same ID or
// symbol overwrite earlier ones.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID()] = a
	r.bySymbol[symbolKey{a.ChainID(), strings.ToUpper(a.Symbol())}] = a
}

// ByID looks up an asset by its ID.
func (r *Registry) ByID(id AssetID) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	return a, ok
}

// BySymbol looks up an asset by chain and symbol, case-insensitive.
func (r *Registry) BySymbol(chainID uint64, symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.bySymbol[symbolKey{chainID, strings.ToUpper(symbol)}]
	return a, ok
}

// Resolve accepts either a ticker symbol or a hex address and returns
// the matching asset. Unknown addresses are rejected; callers that
// want to quote arbitrary tokens pass addresses straight through to
// the venues instead.
func (r *Registry) Resolve(chainID uint64, symbolOrAddress string) (*Asset, error) {
	if common.IsHexAddress(symbolOrAddress) {
		addr := common.HexToAddress(symbolOrAddress)
		if addr == (common.Address{}) {
			if a, ok := r.ByID(NewNativeAssetID(chainID)); ok {
				return a, nil
			}
			return nil, fmt.Errorf("no native asset registered for chain %d", chainID)
		}
		if a, ok := r.ByID(NewTokenAssetID(chainID, addr)); ok {
			return a, nil
		}
		return nil, fmt.Errorf("unknown token %s on chain %d", symbolOrAddress, chainID)
	}
	if a, ok := r.BySymbol(chainID, symbolOrAddress); ok {
		return a, nil
	}
	return nil, fmt.Errorf("unknown symbol %q on chain %d", symbolOrAddress, chainID)
}

// All returns a snapshot of every registered asset.
func (r *Registry) All() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Asset, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out
}
