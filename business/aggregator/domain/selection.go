package domain

import "sort"

// QuoteAggregation summarizes a set of quote results. It refers to
// quotes by source tag; the quotes themselves live in the result
// slice it was computed from.
type QuoteAggregation struct {
	// BestSource is nil when no source returned a quote.
	BestSource *Source
	// Ranked lists successful sources best-first under the same
	// ordering that picked BestSource.
	Ranked []Source
	// FailedSources lists sources that produced no quote, in
	// request order.
	FailedSources []FailedSource
}

// QuoteResults is the shape every fan-out returns.
type QuoteResults = AggregatedResult[Quote, QuoteAggregation]

// AggregateQuotes ranks successful results and picks the best quote.
// Ordering is deterministic: higher AmountOut wins; ties break on
// lower EstimatedGas (missing gas sorts last), then lower latency,
// then earlier request position.
func AggregateQuotes(results []SourceResult[Quote]) QuoteAggregation {
	type entry struct {
		idx int
		res SourceResult[Quote]
	}

	var ok []entry
	agg := QuoteAggregation{}

	for i, r := range results {
		if r.OK() && r.Value.AmountOut != nil {
			ok = append(ok, entry{idx: i, res: r})
			continue
		}
		fs := FailedSource{Source: r.Source}
		if r.Failure != nil {
			fs.Reason = *r.Failure
		} else {
			fs.Reason = Failure{Kind: FailureDecode, Code: "INVALID_QUOTE", Message: "quote missing output amount"}
		}
		agg.FailedSources = append(agg.FailedSources, fs)
	}

	sort.SliceStable(ok, func(a, b int) bool {
		qa, qb := ok[a].res.Value, ok[b].res.Value
		if c := qa.AmountOut.Cmp(qb.AmountOut); c != 0 {
			return c > 0
		}
		if ga, gb := qa.gasOrMax(), qb.gasOrMax(); ga != gb {
			return ga < gb
		}
		if ok[a].res.LatencyMS != ok[b].res.LatencyMS {
			return ok[a].res.LatencyMS < ok[b].res.LatencyMS
		}
		return ok[a].idx < ok[b].idx
	})

	for _, e := range ok {
		agg.Ranked = append(agg.Ranked, e.res.Source)
	}
	if len(agg.Ranked) > 0 {
		best := agg.Ranked[0]
		agg.BestSource = &best
	}

	return agg
}

// BestQuote returns the winning quote from a result set, or nil when
// every source failed.
func BestQuote(r *QuoteResults) *Quote {
	if r == nil || r.Aggregation.BestSource == nil {
		return nil
	}
	for _, res := range r.Results {
		if res.OK() && res.Source == *r.Aggregation.BestSource {
			return res.Value
		}
	}
	return nil
}
