// Package scan orchestrates one full scoring cycle: normalize each raw
// snapshot, score it, and rank the survivors.
package scan

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/seanyjeong/stock-sub000/internal/domain"
	"github.com/seanyjeong/stock-sub000/internal/metrics"
	"github.com/seanyjeong/stock-sub000/internal/normalize"
	"github.com/seanyjeong/stock-sub000/internal/rank"
	"github.com/seanyjeong/stock-sub000/internal/scoring"
)

// SkippedTicker records a snapshot dropped from the cycle and why. A ticker
// that fails normalization is absent from the ranked output entirely rather
// than appearing with partial data.
type SkippedTicker struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// CycleResult is the output of one scan cycle. Each cycle wholesale
// replaces the previous one.
type CycleResult struct {
	CycleID     string                  `json:"cycle_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Entries     []domain.ScoreBreakdown `json:"entries"`
	Skipped     []SkippedTicker         `json:"skipped,omitempty"`
}

// Ranked wraps the cycle entries for Top-N / show-more access.
func (c CycleResult) Ranked() rank.Ranked {
	return rank.Ranked{Entries: c.Entries}
}

// Pipeline runs the synchronous batch computation Normalizer → Scorer →
// Ranker. It holds no mutable state across invocations.
type Pipeline struct {
	normalizer *normalize.Normalizer
	scorer     *scoring.Scorer
	metrics    *metrics.Registry
}

// New wires a pipeline. metrics may be nil for library use.
func New(normalizer *normalize.Normalizer, scorer *scoring.Scorer, m *metrics.Registry) *Pipeline {
	return &Pipeline{normalizer: normalizer, scorer: scorer, metrics: m}
}

// Run scores one snapshot batch against the current holdings set. Records
// that fail validation are skipped and logged; one bad record never aborts
// the cycle.
func (p *Pipeline) Run(batch []domain.TickerSnapshot, holdings map[string]bool) CycleResult {
	start := time.Now()
	cycleID := uuid.New().String()

	breakdowns := make([]domain.ScoreBreakdown, 0, len(batch))
	var skipped []SkippedTicker

	for _, raw := range batch {
		features, err := p.normalizer.Normalize(raw)
		if err != nil {
			log.Warn().Str("cycle_id", cycleID).Str("ticker", raw.Ticker).
				Err(err).Msg("skipping snapshot")
			skipped = append(skipped, SkippedTicker{Ticker: raw.Ticker, Reason: err.Error()})
			continue
		}
		breakdowns = append(breakdowns, p.scorer.Score(*features))
	}

	ranked := rank.Rank(breakdowns, holdings)

	if p.metrics != nil {
		p.metrics.ScanCycles.Inc()
		p.metrics.ScanCycleDuration.Observe(time.Since(start).Seconds())
		p.metrics.TickersScored.Add(float64(len(breakdowns)))
		p.metrics.TickersSkipped.Add(float64(len(skipped)))
	}

	log.Info().Str("cycle_id", cycleID).
		Int("scored", len(breakdowns)).
		Int("skipped", len(skipped)).
		Dur("elapsed", time.Since(start)).
		Msg("scan cycle complete")

	return CycleResult{
		CycleID:     cycleID,
		GeneratedAt: start,
		Entries:     ranked.Entries,
		Skipped:     skipped,
	}
}
