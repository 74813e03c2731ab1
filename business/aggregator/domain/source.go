// Package domain holds the quote aggregation model: sources, quotes,
// per-source results, and best-quote selection.
package domain

import (
	"fmt"
	"strings"
)

// Source identifies a quote source (a DEX aggregator API).
type Source string

const (
	SourceOpenOcean Source = "openocean"
	SourceKyberSwap Source = "kyberswap"
	SourceZeroX     Source = "zerox"
	SourceOneInch   Source = "oneinch"
	SourceCowSwap   Source = "cowswap"
	SourceLiFi      Source = "lifi"
	SourceVelora    Source = "velora"
	SourceEnso      Source = "enso"
)

// AllSources lists every known source in dispatch order. Result
// slices follow this order when all sources are queried.
var AllSources = []Source{
	SourceOpenOcean,
	SourceKyberSwap,
	SourceZeroX,
	SourceOneInch,
	SourceCowSwap,
	SourceLiFi,
	SourceVelora,
	SourceEnso,
}

// ParseSource converts a string to a Source, case-insensitive.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllSources {
		if src == known {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source: %q", s)
}

// String returns the source name.
func (s Source) String() string {
	return string(s)
}

// DisplayName returns the branded name for UI output.
func (s Source) DisplayName() string {
	switch s {
	case SourceOpenOcean:
		return "OpenOcean"
	case SourceKyberSwap:
		return "KyberSwap"
	case SourceZeroX:
		return "0x"
	case SourceOneInch:
		return "1inch"
	case SourceCowSwap:
		return "CoW Swap"
	case SourceLiFi:
		return "LI.FI"
	case SourceVelora:
		return "Velora"
	case SourceEnso:
		return "Enso"
	}
	return string(s)
}
