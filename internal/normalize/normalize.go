package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// ValidationError marks a single structurally malformed snapshot. The caller
// skips the record and keeps the rest of the batch; one bad ticker never
// aborts a cycle.
type ValidationError struct {
	Ticker string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("invalid snapshot: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid snapshot %s: %s: %s", e.Ticker, e.Field, e.Reason)
}

// Externals carries per-ticker flags that come from sources other than the
// market-data collector and get merged in at the normalization boundary.
type Externals struct {
	RegSHO map[string]bool // RegSHO threshold list membership
}

// Normalizer validates raw collector snapshots into scorer-ready features.
type Normalizer struct {
	ext Externals
}

func New(ext Externals) *Normalizer {
	return &Normalizer{ext: ext}
}

// Normalize coerces one raw snapshot into a validated feature record.
// Absent optional numerics stay nil and contribute zero downstream; only
// structural problems (missing ticker, non-finite or impossible values)
// return a ValidationError.
func (n *Normalizer) Normalize(raw domain.TickerSnapshot) (*domain.NormalizedFeatures, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return nil, &ValidationError{Field: "ticker", Reason: "missing symbol"}
	}

	checks := []struct {
		name    string
		val     *float64
		nonNeg  bool
	}{
		{"short_interest_pct", raw.ShortInterestPct, true},
		{"borrow_rate_pct", raw.BorrowRatePct, true},
		{"days_to_cover", raw.DaysToCover, true},
		{"float_shares", raw.FloatShares, true},
		{"available_shares", raw.AvailableShares, true},
		{"price_change_5d_pct", raw.PriceChange5dPct, false},
		{"volume_ratio", raw.VolumeRatio, true},
		{"market_cap", raw.MarketCap, true},
	}
	for _, c := range checks {
		if c.val == nil {
			continue
		}
		v := *c.val
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ValidationError{Ticker: ticker, Field: c.name, Reason: "not a finite number"}
		}
		if c.nonNeg && v < 0 {
			return nil, &ValidationError{Ticker: ticker, Field: c.name, Reason: "negative value"}
		}
	}

	if raw.PositiveNewsCount < 0 {
		return nil, &ValidationError{Ticker: ticker, Field: "positive_news_count", Reason: "negative count"}
	}
	if raw.NegativeNewsCount < 0 {
		return nil, &ValidationError{Ticker: ticker, Field: "negative_news_count", Reason: "negative count"}
	}

	return &domain.NormalizedFeatures{
		Ticker:            ticker,
		ShortInterestPct:  copyPtr(raw.ShortInterestPct),
		BorrowRatePct:     copyPtr(raw.BorrowRatePct),
		DaysToCover:       copyPtr(raw.DaysToCover),
		FloatShares:       copyPtr(raw.FloatShares),
		AvailableShares:   copyPtr(raw.AvailableShares),
		ZeroBorrow:        raw.ZeroBorrow,
		DilutionProtected: raw.DilutionProtected,
		RegSHO:            n.ext.RegSHO[ticker],
		PositiveNewsCount: raw.PositiveNewsCount,
		NegativeNewsCount: raw.NegativeNewsCount,
		PriceChange5dPct:  copyPtr(raw.PriceChange5dPct),
		VolumeRatio:       copyPtr(raw.VolumeRatio),
		MarketCap:         copyPtr(raw.MarketCap),
		IsHolding:         raw.IsHolding,
		CollectedAt:       raw.CollectedAt,
	}, nil
}

// ParseBatch decodes a JSON array of raw snapshots. Unknown fields in the
// payload are dropped rather than trusted downstream; per-record validation
// happens later in Normalize so that one malformed record does not reject
// the whole batch here.
func ParseBatch(data []byte) ([]domain.TickerSnapshot, error) {
	var batch []domain.TickerSnapshot
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("decode snapshot batch: %w", err)
	}
	return batch, nil
}

func copyPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
