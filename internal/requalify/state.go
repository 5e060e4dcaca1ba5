package requalify

import (
	"time"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// PriorVerdicts is the small caller-owned state backing the fail-open
// policy: when a live price cannot be obtained, the previous verdict stands
// rather than flipping to disqualified. It is deliberately not shared
// between polling sessions and carries no synchronization; each poller owns
// its own instance.
type PriorVerdicts struct {
	byTicker map[string]Verdict
}

func NewPriorVerdicts() *PriorVerdicts {
	return &PriorVerdicts{byTicker: make(map[string]Verdict)}
}

// Get returns the last recorded verdict for a ticker.
func (p *PriorVerdicts) Get(ticker string) (Verdict, bool) {
	v, ok := p.byTicker[ticker]
	return v, ok
}

// Reset drops recorded verdicts; used when a new recommendation set is
// generated upstream.
func (p *PriorVerdicts) Reset() {
	p.byTicker = make(map[string]Verdict)
}

// Evaluate runs the filter against a quote if one is available, recording
// the result. With no quote it falls back to the prior verdict unchanged;
// a recommendation never seen with a price yet stays VALID until evidence
// says otherwise.
func (p *PriorVerdicts) Evaluate(f *Filter, rec domain.Recommendation, quote *domain.LiveQuote, now time.Time) Verdict {
	if quote == nil {
		if prior, ok := p.byTicker[rec.Ticker]; ok {
			return prior
		}
		v := Verdict{Ticker: rec.Ticker, Valid: true, Stale: true, EvaluatedAt: now}
		p.byTicker[rec.Ticker] = v
		return v
	}

	v := f.Evaluate(rec, *quote, now)
	p.byTicker[rec.Ticker] = v
	return v
}
