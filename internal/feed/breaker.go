package feed

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/seanyjeong/stock-sub000/internal/domain"
	"github.com/seanyjeong/stock-sub000/internal/requalify"
)

// BreakerSource wraps a quote source with a circuit breaker so a degraded
// provider stops being hit for a while. An open breaker surfaces as an
// ordinary fetch error, which the requalification layer treats as
// price-unavailable and fails open, never as a disqualification.
type BreakerSource struct {
	inner requalify.QuoteSource
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerSource wraps inner. The breaker trips after five consecutive
// failures and probes again after 30 seconds.
func NewBreakerSource(name string, inner requalify.QuoteSource) *BreakerSource {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("quote source breaker state change")
		},
	}
	return &BreakerSource{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

func (s *BreakerSource) Fetch(ctx context.Context, ticker string) (*domain.LiveQuote, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.inner.Fetch(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.LiveQuote), nil
}
