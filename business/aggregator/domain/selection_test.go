package domain

import (
	"errors"
	"math/big"
	"testing"
)

func gas(v uint64) *uint64 { return &v }

func quoteResult(src Source, amountOut int64, g *uint64, latencyMS uint64) SourceResult[Quote] {
	q := &Quote{
		Source:       src,
		AmountIn:     big.NewInt(1_000_000_000_000_000_000),
		AmountOut:    big.NewInt(amountOut),
		EstimatedGas: g,
	}
	return NewSourceValue(src, q, latencyMS)
}

func TestAggregateQuotesPicksHighestOutput(t *testing.T) {
	results := []SourceResult[Quote]{
		quoteResult(SourceOpenOcean, 1_000_000, gas(210_000), 50),
		quoteResult(SourceKyberSwap, 1_050_000, gas(250_000), 80),
		NewSourceFailure[Quote](SourceZeroX, errors.New("http 500"), 30),
	}

	agg := AggregateQuotes(results)

	if agg.BestSource == nil || *agg.BestSource != SourceKyberSwap {
		t.Fatalf("best = %v, want kyberswap", agg.BestSource)
	}
	if len(agg.Ranked) != 2 || agg.Ranked[0] != SourceKyberSwap || agg.Ranked[1] != SourceOpenOcean {
		t.Fatalf("ranked = %v", agg.Ranked)
	}
	if len(agg.FailedSources) != 1 || agg.FailedSources[0].Source != SourceZeroX {
		t.Fatalf("failed = %v", agg.FailedSources)
	}
}

func TestAggregateQuotesAllFailed(t *testing.T) {
	results := []SourceResult[Quote]{
		NewSourceFailure[Quote](SourceOpenOcean, errors.New("timeout"), 10_000),
		NewSourceFailure[Quote](SourceLiFi, errors.New("http 429"), 120),
	}

	agg := AggregateQuotes(results)

	if agg.BestSource != nil {
		t.Fatalf("best = %v, want nil", *agg.BestSource)
	}
	if len(agg.Ranked) != 0 {
		t.Fatalf("ranked = %v, want empty", agg.Ranked)
	}
	if len(agg.FailedSources) != 2 {
		t.Fatalf("failed = %v, want 2 entries", agg.FailedSources)
	}
}

func TestAggregateQuotesTieBreaks(t *testing.T) {
	tests := []struct {
		name    string
		results []SourceResult[Quote]
		want    Source
	}{
		{
			name: "equal output, lower gas wins",
			results: []SourceResult[Quote]{
				quoteResult(SourceOpenOcean, 2_000_000, gas(300_000), 40),
				quoteResult(SourceOneInch, 2_000_000, gas(180_000), 90),
			},
			want: SourceOneInch,
		},
		{
			name: "missing gas sorts after known gas",
			results: []SourceResult[Quote]{
				quoteResult(SourceCowSwap, 2_000_000, nil, 30),
				quoteResult(SourceVelora, 2_000_000, gas(400_000), 95),
			},
			want: SourceVelora,
		},
		{
			name: "equal output and gas, lower latency wins",
			results: []SourceResult[Quote]{
				quoteResult(SourceLiFi, 2_000_000, gas(200_000), 75),
				quoteResult(SourceEnso, 2_000_000, gas(200_000), 45),
			},
			want: SourceEnso,
		},
		{
			name: "full tie falls back to request order",
			results: []SourceResult[Quote]{
				quoteResult(SourceZeroX, 2_000_000, gas(200_000), 60),
				quoteResult(SourceKyberSwap, 2_000_000, gas(200_000), 60),
			},
			want: SourceZeroX,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := AggregateQuotes(tt.results)
			if agg.BestSource == nil || *agg.BestSource != tt.want {
				t.Fatalf("best = %v, want %s", agg.BestSource, tt.want)
			}
		})
	}
}

func TestAggregateQuotesDeterministic(t *testing.T) {
	results := []SourceResult[Quote]{
		quoteResult(SourceOpenOcean, 999, gas(100), 10),
		quoteResult(SourceKyberSwap, 1_000, gas(100), 10),
		quoteResult(SourceZeroX, 1_000, gas(90), 10),
		quoteResult(SourceOneInch, 998, nil, 5),
	}

	first := AggregateQuotes(results)
	for i := 0; i < 20; i++ {
		again := AggregateQuotes(results)
		if *again.BestSource != *first.BestSource {
			t.Fatalf("run %d: best changed from %s to %s", i, *first.BestSource, *again.BestSource)
		}
		for j := range first.Ranked {
			if again.Ranked[j] != first.Ranked[j] {
				t.Fatalf("run %d: rank %d changed", i, j)
			}
		}
	}
	if *first.BestSource != SourceZeroX {
		t.Fatalf("best = %s, want zerox", *first.BestSource)
	}
}

func TestAggregateQuotesExactBigIntComparison(t *testing.T) {
	// Values differ only past float64 precision.
	a, _ := new(big.Int).SetString("10000000000000000000000001", 10)
	b, _ := new(big.Int).SetString("10000000000000000000000000", 10)

	results := []SourceResult[Quote]{
		NewSourceValue(SourceLiFi, &Quote{AmountIn: big.NewInt(1), AmountOut: b}, 10),
		NewSourceValue(SourceEnso, &Quote{AmountIn: big.NewInt(1), AmountOut: a}, 10),
	}

	agg := AggregateQuotes(results)
	if *agg.BestSource != SourceEnso {
		t.Fatalf("best = %s, want enso", *agg.BestSource)
	}
}

func TestBestQuote(t *testing.T) {
	results := []SourceResult[Quote]{
		quoteResult(SourceOpenOcean, 500, gas(1), 10),
		quoteResult(SourceVelora, 600, gas(1), 10),
	}
	r := &QuoteResults{
		Aggregation: AggregateQuotes(results),
		Results:     results,
	}

	best := BestQuote(r)
	if best == nil || best.Source != SourceVelora {
		t.Fatalf("best quote = %+v", best)
	}

	empty := &QuoteResults{Aggregation: AggregateQuotes(nil)}
	if BestQuote(empty) != nil {
		t.Fatal("expected nil best quote for empty results")
	}
	if BestQuote(nil) != nil {
		t.Fatal("expected nil best quote for nil results")
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in      string
		want    Source
		wantErr bool
	}{
		{"openocean", SourceOpenOcean, false},
		{"KyberSwap", SourceKyberSwap, false},
		{"  zerox  ", SourceZeroX, false},
		{"uniswap", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSource(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSource(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSource(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
