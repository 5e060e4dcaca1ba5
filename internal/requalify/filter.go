// Package requalify re-checks previously generated trade recommendations
// against live price action and decides whether they remain actionable.
package requalify

import (
	"fmt"
	"time"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// Disqualification reasons, in rule precedence order.
const (
	ReasonStopLossBreached = "stop-loss breached"
	ReasonApproachingStop  = "approaching stop-loss"
	ReasonEntryGapExceeded = "entry gap exceeded"
)

// Verdict is the per-recommendation requalification outcome. It is derived
// output: the filter never mutates the recommendation itself.
type Verdict struct {
	Ticker      string    `json:"ticker"`
	Valid       bool      `json:"valid"`
	Reason      string    `json:"reason,omitempty"`
	Stale       bool      `json:"stale,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Config holds the risk thresholds for requalification.
type Config struct {
	// StopProximity disqualifies when the price sits within this fraction
	// above the stop while under water.
	StopProximity float64 `yaml:"stop_proximity"` // 0.03

	// Entry gap ceilings by category: chasing a runner past these is out.
	MaxGapDayTrade float64 `yaml:"max_gap_day_trade"` // 0.10
	MaxGapDefault  float64 `yaml:"max_gap_default"`   // 0.15 for swing/longterm

	// Quote freshness windows in seconds, feeding the stale flag. A quote
	// older than the window for its session is still evaluated, just
	// flagged.
	FreshnessRegularSecs  int `yaml:"freshness_regular_secs"`   // 90
	FreshnessOffHoursSecs int `yaml:"freshness_off_hours_secs"` // 600
}

// DefaultConfig returns the production requalification thresholds.
func DefaultConfig() Config {
	return Config{
		StopProximity:         0.03,
		MaxGapDayTrade:        0.10,
		MaxGapDefault:         0.15,
		FreshnessRegularSecs:  90,
		FreshnessOffHoursSecs: 600,
	}
}

// Validate rejects threshold tables that cannot express a sane rule set.
func (c Config) Validate() error {
	if c.StopProximity <= 0 || c.StopProximity >= 1 {
		return fmt.Errorf("stop_proximity must be in (0,1), got %v", c.StopProximity)
	}
	if c.MaxGapDayTrade <= 0 {
		return fmt.Errorf("max_gap_day_trade must be positive, got %v", c.MaxGapDayTrade)
	}
	if c.MaxGapDefault <= 0 {
		return fmt.Errorf("max_gap_default must be positive, got %v", c.MaxGapDefault)
	}
	if c.FreshnessRegularSecs <= 0 || c.FreshnessOffHoursSecs <= 0 {
		return fmt.Errorf("freshness windows must be positive")
	}
	return nil
}

// Filter evaluates live quotes against recommendation risk thresholds. It
// is a pure function of its arguments and holds no lock: the verdict is
// recomputed fresh on every call, never accumulated.
type Filter struct {
	cfg Config
}

func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Evaluate applies the disqualification rules top-down, first match wins:
//
//  1. price at or below the stop
//  2. under water and within the stop-proximity band
//  3. price gapped past the entry by more than the category ceiling
//
// Anything else is VALID. Identical inputs always yield identical verdicts.
func (f *Filter) Evaluate(rec domain.Recommendation, quote domain.LiveQuote, now time.Time) Verdict {
	v := Verdict{
		Ticker:      rec.Ticker,
		Valid:       true,
		Stale:       quote.Age(now) > f.freshnessWindow(quote.Session),
		EvaluatedAt: now,
	}
	price := quote.CurrentPrice

	if price <= rec.StopLoss {
		v.Valid = false
		v.Reason = ReasonStopLossBreached
		return v
	}

	// Proximity needs a meaningful stop to divide by.
	if rec.StopLoss > 0 && price < rec.EntryPrice {
		if (price-rec.StopLoss)/rec.StopLoss <= f.cfg.StopProximity {
			v.Valid = false
			v.Reason = ReasonApproachingStop
			return v
		}
	}

	if rec.EntryPrice > 0 {
		gap := (price - rec.EntryPrice) / rec.EntryPrice
		if gap > f.maxGap(rec.Category) {
			v.Valid = false
			v.Reason = ReasonEntryGapExceeded
			return v
		}
	}

	return v
}

func (f *Filter) maxGap(cat domain.Category) float64 {
	if cat == domain.CategoryDayTrade {
		return f.cfg.MaxGapDayTrade
	}
	return f.cfg.MaxGapDefault
}

func (f *Filter) freshnessWindow(session domain.MarketSession) time.Duration {
	if session == domain.SessionRegular {
		return time.Duration(f.cfg.FreshnessRegularSecs) * time.Second
	}
	return time.Duration(f.cfg.FreshnessOffHoursSecs) * time.Second
}
