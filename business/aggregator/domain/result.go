package domain

import (
	"github.com/yldfi/quotemux/internal/apperror"
)

// FailureKind classifies why a source produced no value.
type FailureKind string

const (
	// FailureRequest covers transport and HTTP-level errors.
	FailureRequest FailureKind = "request"
	// FailureNoRoute means the source answered but has no path
	// between the tokens.
	FailureNoRoute FailureKind = "no_route"
	// FailureRateLimited means the source throttled us.
	FailureRateLimited FailureKind = "rate_limited"
	// FailureDecode means the response could not be interpreted.
	FailureDecode FailureKind = "decode"
	// FailureUnavailable covers circuit-open and cancelled calls.
	FailureUnavailable FailureKind = "unavailable"
)

// Failure records a source-level error in a form safe to serialize.
type Failure struct {
	Kind    FailureKind
	Code    string
	Message string
}

// FailureFromError maps an error (usually an AppError) to a Failure.
func FailureFromError(err error) Failure {
	code := apperror.GetCode(err)
	kind := FailureRequest
	switch code {
	case apperror.CodeNoRoute, apperror.CodeInsufficientLiquidity:
		kind = FailureNoRoute
	case apperror.CodeSourceRateLimited, apperror.CodeRateLimitExceeded:
		kind = FailureRateLimited
	case apperror.CodeInvalidQuote:
		kind = FailureDecode
	case apperror.CodeCircuitOpen, apperror.CodeServiceUnavailable, apperror.CodeServiceTimeout:
		kind = FailureUnavailable
	}
	return Failure{Kind: kind, Code: string(code), Message: err.Error()}
}

// SourceResult is the outcome of querying one source: either a value
// or a failure, never both, plus the observed latency. Latency is
// recorded for failures too.
type SourceResult[T any] struct {
	Source    Source
	Value     *T
	Failure   *Failure
	LatencyMS uint64
}

// OK reports whether the source produced a value.
func (r SourceResult[T]) OK() bool {
	return r.Value != nil
}

// NewSourceValue builds a successful result.
func NewSourceValue[T any](src Source, v *T, latencyMS uint64) SourceResult[T] {
	return SourceResult[T]{Source: src, Value: v, LatencyMS: latencyMS}
}

// NewSourceFailure builds a failed result.
func NewSourceFailure[T any](src Source, err error, latencyMS uint64) SourceResult[T] {
	f := FailureFromError(err)
	return SourceResult[T]{Source: src, Failure: &f, LatencyMS: latencyMS}
}

// FailedSource names a source that produced no value and why.
type FailedSource struct {
	Source Source
	Reason Failure
}

// AggregatedResult pairs per-source results with an aggregation
// computed over them. Results keep the caller's request order so
// Results[i] corresponds to the i-th requested source. ElapsedMS is
// wall-clock time for the whole fan-out, roughly the slowest source,
// not the sum.
type AggregatedResult[T any, A any] struct {
	Aggregation A
	Results     []SourceResult[T]
	ElapsedMS   uint64
}

// SucceededCount returns how many sources produced a value.
func (r *AggregatedResult[T, A]) SucceededCount() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}
