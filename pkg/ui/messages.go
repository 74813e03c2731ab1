package ui

import (
	"time"

	"github.com/yldfi/quotemux/business/aggregator/domain"
)

// Message types for TUI updates

// QuotesMsg carries a finished fan-out.
type QuotesMsg struct {
	Results *domain.QuoteResults
	At      time.Time
}

// GasPriceMsg is sent when the gas price is refreshed.
type GasPriceMsg struct {
	Gwei float64
}

// ErrorMsg is sent when a refresh fails outright.
type ErrorMsg struct {
	Error error
}

// TickMsg drives the refresh loop.
type TickMsg struct{}
