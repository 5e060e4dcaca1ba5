package domain

import "time"

// TickerSnapshot is one collection-cycle record for a single ticker, as
// produced by the external market-data collectors. Optional numerics are
// pointers: nil means the collector had no data, which is not an error.
// Snapshots are immutable; a new scan cycle replaces the whole set.
type TickerSnapshot struct {
	Ticker            string     `json:"ticker"`
	ShortInterestPct  *float64   `json:"short_interest_pct"`
	BorrowRatePct     *float64   `json:"borrow_rate_pct"`
	DaysToCover       *float64   `json:"days_to_cover"`
	FloatShares       *float64   `json:"float_shares"`
	AvailableShares   *float64   `json:"available_shares"`
	ZeroBorrow        bool       `json:"zero_borrow"`
	DilutionProtected bool       `json:"dilution_protected"`
	PositiveNewsCount int        `json:"positive_news_count"`
	NegativeNewsCount int        `json:"negative_news_count"`
	PriceChange5dPct  *float64   `json:"price_change_5d_pct"`
	VolumeRatio       *float64   `json:"volume_ratio"`
	MarketCap         *float64   `json:"market_cap"`
	IsHolding         bool       `json:"is_holding"`
	CollectedAt       time.Time  `json:"collected_at"`
}

// NormalizedFeatures is the validated, nullable-safe form of a snapshot that
// the scorer consumes. RegSHO is an external flag merged in at the
// normalization boundary, not collector output.
type NormalizedFeatures struct {
	Ticker            string    `json:"ticker"`
	ShortInterestPct  *float64  `json:"short_interest_pct"`
	BorrowRatePct     *float64  `json:"borrow_rate_pct"`
	DaysToCover       *float64  `json:"days_to_cover"`
	FloatShares       *float64  `json:"float_shares"`
	AvailableShares   *float64  `json:"available_shares"`
	ZeroBorrow        bool      `json:"zero_borrow"`
	DilutionProtected bool      `json:"dilution_protected"`
	RegSHO            bool      `json:"reg_sho"`
	PositiveNewsCount int       `json:"positive_news_count"`
	NegativeNewsCount int       `json:"negative_news_count"`
	PriceChange5dPct  *float64  `json:"price_change_5d_pct"`
	VolumeRatio       *float64  `json:"volume_ratio"`
	MarketCap         *float64  `json:"market_cap"`
	IsHolding         bool      `json:"is_holding"`
	CollectedAt       time.Time `json:"collected_at"`
}

// Rating is the candidate heat band derived from the combined score.
// Total order: SQUEEZE > HOT > WATCH > COLD.
type Rating string

const (
	RatingSqueeze Rating = "SQUEEZE"
	RatingHot     Rating = "HOT"
	RatingWatch   Rating = "WATCH"
	RatingCold    Rating = "COLD"
)

// Rank returns the ordinal position of the rating, higher is hotter.
func (r Rating) Rank() int {
	switch r {
	case RatingSqueeze:
		return 3
	case RatingHot:
		return 2
	case RatingWatch:
		return 1
	case RatingCold:
		return 0
	default:
		return -1
	}
}

func (r Rating) String() string {
	return string(r)
}

// ScoreBreakdown is the per-ticker scoring result for one cycle. Pure
// function output: recomputed every cycle, never mutated in place.
type ScoreBreakdown struct {
	Ticker               string             `json:"ticker"`
	SupplyPressure       float64            `json:"supply_pressure"`
	ShortPosition        float64            `json:"short_position"`
	CatalystMomentum     float64            `json:"catalyst_momentum"`
	StructuralProtection float64            `json:"structural_protection"`
	RawScore             float64            `json:"raw_score"`
	Tier                 string             `json:"tier"`
	TierWeight           float64            `json:"tier_weight"`
	CombinedScore        int                `json:"combined_score"`
	Rating               Rating             `json:"rating"`
	Rank                 int                `json:"rank"`
	IsHolding            bool               `json:"is_holding"`
	Detail               map[string]float64 `json:"detail,omitempty"`
}

// Category classifies a trade recommendation by intended holding horizon.
type Category string

const (
	CategoryDayTrade Category = "day_trade"
	CategorySwing    Category = "swing"
	CategoryLongTerm Category = "longterm"
)

// Recommendation is produced by the upstream recommendation generator.
// Append-only per cycle; the requalification filter only reads it.
type Recommendation struct {
	Ticker      string    `json:"ticker"`
	Category    Category  `json:"category"`
	EntryPrice  float64   `json:"entry_price"`
	StopLoss    float64   `json:"stop_loss"`
	TargetPrice float64   `json:"target_price"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MarketSession identifies which trading session a live quote came from.
type MarketSession string

const (
	SessionRegular    MarketSession = "regular"
	SessionPremarket  MarketSession = "premarket"
	SessionAfterhours MarketSession = "afterhours"
	SessionClosed     MarketSession = "closed"
)

// LiveQuote is an ephemeral price observation from the hybrid price source.
type LiveQuote struct {
	Ticker       string        `json:"ticker"`
	CurrentPrice float64       `json:"current_price"`
	Session      MarketSession `json:"session"`
	ObservedAt   time.Time     `json:"observed_at"`
}

// Age returns how old the quote is relative to now.
func (q LiveQuote) Age(now time.Time) time.Duration {
	return now.Sub(q.ObservedAt)
}
