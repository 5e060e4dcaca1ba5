package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

type scriptedSource struct {
	quote *domain.LiveQuote
	err   error
	calls int
}

func (s *scriptedSource) Fetch(_ context.Context, _ string) (*domain.LiveQuote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

func TestBreakerSource_PassesThroughHealthyFetches(t *testing.T) {
	inner := &scriptedSource{quote: &domain.LiveQuote{
		Ticker:       "TST",
		CurrentPrice: 12.34,
		Session:      domain.SessionRegular,
		ObservedAt:   time.Now(),
	}}
	src := NewBreakerSource("test", inner)

	quote, err := src.Fetch(context.Background(), "TST")
	require.NoError(t, err)
	assert.Equal(t, 12.34, quote.CurrentPrice)
}

func TestBreakerSource_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &scriptedSource{err: fmt.Errorf("provider down")}
	src := NewBreakerSource("test", inner)

	for i := 0; i < 5; i++ {
		_, err := src.Fetch(context.Background(), "TST")
		require.Error(t, err)
	}
	callsWhenTripped := inner.calls

	// Breaker is open: failures surface as errors without touching the
	// provider. The requalify layer treats any error as price-unavailable
	// and fails open, so an outage can never disqualify a recommendation.
	_, err := src.Fetch(context.Background(), "TST")
	require.Error(t, err)
	assert.Equal(t, callsWhenTripped, inner.calls, "open breaker short-circuits the provider")
}

func TestStreamSource_FetchBeforeAnyTick(t *testing.T) {
	src := NewStreamSource("ws://localhost:0/ticks")
	_, err := src.Fetch(context.Background(), "TST")
	assert.Error(t, err, "no tick yet means price-unavailable, not a zero quote")
}
