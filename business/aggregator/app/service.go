package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/yldfi/quotemux/business/aggregator/domain"
	"github.com/yldfi/quotemux/internal/apperror"
	"github.com/yldfi/quotemux/internal/logger"
)

// QuoteService fans a quote request out to its fetchers and
// aggregates the answers. One slow or failing source never hides the
// others: every source reports a SourceResult either way.
type QuoteService struct {
	fetchers []Fetcher
	bySource map[domain.Source]Fetcher
	log      logger.LoggerInterface
}

// NewQuoteService creates a QuoteService. Fetcher order fixes the
// request order used for result slices and tie-breaking.
func NewQuoteService(log logger.LoggerInterface, fetchers ...Fetcher) *QuoteService {
	bySource := make(map[domain.Source]Fetcher, len(fetchers))
	for _, f := range fetchers {
		bySource[f.Source()] = f
	}
	return &QuoteService{
		fetchers: fetchers,
		bySource: bySource,
		log:      log,
	}
}

// Sources lists the sources this service can query, in dispatch order.
func (s *QuoteService) Sources() []domain.Source {
	out := make([]domain.Source, len(s.fetchers))
	for i, f := range s.fetchers {
		out[i] = f.Source()
	}
	return out
}

// FetchQuotesAll queries every configured source concurrently.
func (s *QuoteService) FetchQuotesAll(ctx context.Context, req QuoteRequest) (*domain.QuoteResults, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.fanOut(ctx, req, s.fetchers), nil
}

// FetchQuotesParallel queries only the named sources, concurrently,
// keeping results in the order the caller named them.
func (s *QuoteService) FetchQuotesParallel(ctx context.Context, req QuoteRequest, sources []domain.Source) (*domain.QuoteResults, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	fetchers := make([]Fetcher, 0, len(sources))
	for _, src := range sources {
		f, ok := s.bySource[src]
		if !ok {
			return nil, apperror.New(apperror.CodeUnknownSource,
				apperror.WithContext("source="+src.String()))
		}
		fetchers = append(fetchers, f)
	}
	return s.fanOut(ctx, req, fetchers), nil
}

// FetchQuoteFromSource queries a single source. The result carries
// latency whether the source succeeded or not; the error return is
// reserved for invalid input and unknown sources.
func (s *QuoteService) FetchQuoteFromSource(ctx context.Context, src domain.Source, req QuoteRequest) (domain.SourceResult[domain.Quote], error) {
	if err := validateRequest(req); err != nil {
		return domain.SourceResult[domain.Quote]{}, err
	}
	f, ok := s.bySource[src]
	if !ok {
		return domain.SourceResult[domain.Quote]{}, apperror.New(apperror.CodeUnknownSource,
			apperror.WithContext("source="+src.String()))
	}
	return s.fetchOne(ctx, f, req), nil
}

func (s *QuoteService) fanOut(ctx context.Context, req QuoteRequest, fetchers []Fetcher) *domain.QuoteResults {
	start := time.Now()
	results := make([]domain.SourceResult[domain.Quote], len(fetchers))

	var wg sync.WaitGroup
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			results[i] = s.fetchOne(ctx, f, req)
		}(i, f)
	}
	wg.Wait()

	agg := domain.AggregateQuotes(results)
	elapsed := uint64(time.Since(start).Milliseconds())

	if agg.BestSource != nil {
		s.log.Info(ctx, "quotes aggregated",
			"best", agg.BestSource.String(),
			"succeeded", len(agg.Ranked),
			"failed", len(agg.FailedSources),
			"elapsed_ms", elapsed,
		)
	} else {
		s.log.Warn(ctx, "all sources failed",
			"failed", len(agg.FailedSources),
			"elapsed_ms", elapsed,
		)
	}

	return &domain.QuoteResults{
		Aggregation: agg,
		Results:     results,
		ElapsedMS:   elapsed,
	}
}

func (s *QuoteService) fetchOne(ctx context.Context, f Fetcher, req QuoteRequest) domain.SourceResult[domain.Quote] {
	src := f.Source()
	start := time.Now()
	quote, err := f.Fetch(ctx, req)
	latency := uint64(time.Since(start).Milliseconds())

	if err != nil {
		s.log.Debug(ctx, "source failed",
			"source", src.String(),
			"error", err,
			"latency_ms", latency,
		)
		return domain.NewSourceFailure[domain.Quote](src, err, latency)
	}
	if quote == nil || quote.AmountOut == nil {
		err := apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext("source="+src.String()))
		return domain.NewSourceFailure[domain.Quote](src, err, latency)
	}

	s.log.Debug(ctx, "source quoted",
		"source", src.String(),
		"amount_out", quote.AmountOut.String(),
		"latency_ms", latency,
	)
	return domain.NewSourceValue(src, quote, latency)
}

// validateRequest rejects malformed input before any source is
// contacted.
func validateRequest(req QuoteRequest) error {
	if req.ChainID == 0 {
		return apperror.Validation(apperror.CodeRequiredField, "chain_id")
	}
	if !common.IsHexAddress(req.TokenIn) {
		return apperror.Validation(apperror.CodeInvalidAddress, "token_in="+req.TokenIn)
	}
	if !common.IsHexAddress(req.TokenOut) {
		return apperror.Validation(apperror.CodeInvalidAddress, "token_out="+req.TokenOut)
	}
	if strings.EqualFold(req.TokenIn, req.TokenOut) {
		return apperror.Validation(apperror.CodeInvalidInput, "token_in and token_out must differ")
	}
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return apperror.Validation(apperror.CodeInvalidAmount, "amount_in")
	}
	if req.Sender != "" && !common.IsHexAddress(req.Sender) {
		return apperror.Validation(apperror.CodeInvalidAddress, "sender="+req.Sender)
	}
	return nil
}
