package feed

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seanyjeong/stock-sub000/internal/domain"
	"github.com/seanyjeong/stock-sub000/internal/requalify"
)

// InstrumentedSource counts fetch failures so feed outages are visible on
// the metrics surface even though they never flip a verdict.
type InstrumentedSource struct {
	inner    requalify.QuoteSource
	failures prometheus.Counter
}

func NewInstrumentedSource(inner requalify.QuoteSource, failures prometheus.Counter) *InstrumentedSource {
	return &InstrumentedSource{inner: inner, failures: failures}
}

func (s *InstrumentedSource) Fetch(ctx context.Context, ticker string) (*domain.LiveQuote, error) {
	quote, err := s.inner.Fetch(ctx, ticker)
	if err != nil && s.failures != nil {
		s.failures.Inc()
	}
	return quote, err
}
