package requalify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// QuoteSource fetches the latest live quote for a ticker. A nil quote with
// a non-nil error means the price could not be obtained this round; the
// poller then fails open.
type QuoteSource interface {
	Fetch(ctx context.Context, ticker string) (*domain.LiveQuote, error)
}

// PollConfig sets the adaptive polling cadence in seconds.
type PollConfig struct {
	RegularIntervalSecs  int `yaml:"regular_interval_secs"`   // 10 during regular session
	OffHoursIntervalSecs int `yaml:"off_hours_interval_secs"` // 60 otherwise
}

func DefaultPollConfig() PollConfig {
	return PollConfig{
		RegularIntervalSecs:  10,
		OffHoursIntervalSecs: 60,
	}
}

func (c PollConfig) Validate() error {
	if c.RegularIntervalSecs <= 0 || c.OffHoursIntervalSecs <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	return nil
}

// Poller drives requalification from a client-side loop with adaptive
// cadence. There are no hidden timers: the interval for the next tick is
// re-derived after each round from the session the quote source reported,
// and cancelling the context stops the loop without side effects.
type Poller struct {
	source    QuoteSource
	filter    *Filter
	state     *PriorVerdicts
	cfg       PollConfig
	onVerdict func(Verdict)

	session domain.MarketSession
}

// NewPoller wires a polling session. onVerdict receives every verdict of
// every round and may be nil.
func NewPoller(source QuoteSource, filter *Filter, cfg PollConfig, onVerdict func(Verdict)) *Poller {
	return &Poller{
		source:    source,
		filter:    filter,
		state:     NewPriorVerdicts(),
		cfg:       cfg,
		onVerdict: onVerdict,
		session:   domain.SessionClosed,
	}
}

// Run polls the recommendations until the context is cancelled. Each round
// is independent and idempotent; re-evaluating identical inputs yields
// identical verdicts.
func (p *Poller) Run(ctx context.Context, recs []domain.Recommendation) error {
	timer := time.NewTimer(0) // first round immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		p.Poll(ctx, recs)
		timer.Reset(p.Interval())
	}
}

// Poll evaluates one round. Tickers are independent: a fetch failure on one
// leaves its prior verdict standing and does not disturb the others.
func (p *Poller) Poll(ctx context.Context, recs []domain.Recommendation) []Verdict {
	now := time.Now()
	verdicts := make([]Verdict, 0, len(recs))

	for _, rec := range recs {
		if ctx.Err() != nil {
			return verdicts
		}

		quote, err := p.source.Fetch(ctx, rec.Ticker)
		if err != nil {
			log.Warn().Str("ticker", rec.Ticker).Err(err).
				Msg("quote unavailable, keeping prior verdict")
			quote = nil
		} else if quote != nil {
			p.session = quote.Session
		}

		v := p.state.Evaluate(p.filter, rec, quote, now)
		verdicts = append(verdicts, v)
		if p.onVerdict != nil {
			p.onVerdict(v)
		}
	}

	return verdicts
}

// Interval returns the cadence for the next round based on the most
// recently observed market session.
func (p *Poller) Interval() time.Duration {
	if p.session == domain.SessionRegular {
		return time.Duration(p.cfg.RegularIntervalSecs) * time.Second
	}
	return time.Duration(p.cfg.OffHoursIntervalSecs) * time.Second
}

// ResetRecommendations clears prior verdicts when a new recommendation set
// replaces the old one upstream.
func (p *Poller) ResetRecommendations() {
	p.state.Reset()
}
