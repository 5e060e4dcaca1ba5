package scoring

import (
	"math"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// Scorer computes the four capped sub-scores and the combined rating for a
// normalized feature record. Pure and deterministic: identical features
// always produce an identical breakdown.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer over a validated config. Call cfg.Validate()
// before handing the config in; the scorer trusts its tables.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score produces the full per-ticker breakdown for one cycle. The Detail
// map carries per-factor attribution for the screener UI.
func (s *Scorer) Score(f domain.NormalizedFeatures) domain.ScoreBreakdown {
	detail := make(map[string]float64)

	supply := s.scoreSupplyPressure(f, detail)
	short := s.scoreShortPosition(f, detail)
	catalyst := s.scoreCatalystMomentum(f, detail)
	structural := s.scoreStructuralProtection(f, detail)

	raw := supply + short + catalyst + structural
	tier, weight := s.cfg.ClassifyTier(f.MarketCap)
	combined := CombineScore(raw, weight)

	return domain.ScoreBreakdown{
		Ticker:               f.Ticker,
		SupplyPressure:       supply,
		ShortPosition:        short,
		CatalystMomentum:     catalyst,
		StructuralProtection: structural,
		RawScore:             raw,
		Tier:                 tier,
		TierWeight:           weight,
		CombinedScore:        combined,
		Rating:               s.cfg.AssignRating(combined),
		IsHolding:            f.IsHolding,
		Detail:               detail,
	}
}

// scoreSupplyPressure rewards scarce borrow supply. Zero borrow dominates
// the borrow-rate ladder outright; the availability bonus stacks on either
// branch.
func (s *Scorer) scoreSupplyPressure(f domain.NormalizedFeatures, detail map[string]float64) float64 {
	var score float64

	if f.ZeroBorrow {
		score += s.cfg.ZeroBorrowPoints
		detail["zero_borrow"] = s.cfg.ZeroBorrowPoints
	} else if f.BorrowRatePct != nil {
		br := *f.BorrowRatePct
		if br >= s.cfg.HardToBorrowMin {
			score += s.cfg.HardToBorrowPoints
			detail["hard_to_borrow"] = s.cfg.HardToBorrowPoints
		}
		if pts, ok := ladderPoints(s.cfg.BorrowRateRungs, br); ok {
			score += pts
			detail["borrow_rate_tier"] = pts
		}
	}

	if f.AvailableShares != nil {
		switch avail := *f.AvailableShares; {
		case avail == 0:
			score += s.cfg.AvailabilityZeroPoints
			detail["availability"] = s.cfg.AvailabilityZeroPoints
		case avail < s.cfg.AvailabilityLowMax:
			score += s.cfg.AvailabilityLowPoints
			detail["availability"] = s.cfg.AvailabilityLowPoints
		}
	}

	return capAt(score, s.cfg.SupplyPressureCap)
}

// scoreShortPosition rewards crowded short positioning.
func (s *Scorer) scoreShortPosition(f domain.NormalizedFeatures, detail map[string]float64) float64 {
	var score float64

	if f.ShortInterestPct != nil {
		if pts, ok := ladderPoints(s.cfg.ShortInterestRungs, *f.ShortInterestPct); ok {
			score += pts
			detail["short_interest_tier"] = pts
		}
	}
	if f.DaysToCover != nil {
		if pts, ok := ladderPoints(s.cfg.DaysToCoverRungs, *f.DaysToCover); ok {
			score += pts
			detail["days_to_cover_tier"] = pts
		}
	}

	return capAt(score, s.cfg.ShortPositionCap)
}

// scoreCatalystMomentum mixes news tone with recent price and volume
// action. News contributions are mutually exclusive: any negative headline
// overrides positives, and total silence is penalized.
func (s *Scorer) scoreCatalystMomentum(f domain.NormalizedFeatures, detail map[string]float64) float64 {
	var score float64

	switch {
	case f.NegativeNewsCount > 0:
		score += s.cfg.NegativeNewsPoints
		detail["negative_news"] = s.cfg.NegativeNewsPoints
	case f.PositiveNewsCount > 0:
		score += s.cfg.PositiveNewsPoints
		detail["positive_news"] = s.cfg.PositiveNewsPoints
	default:
		score += s.cfg.NoNewsPoints
		detail["no_news"] = s.cfg.NoNewsPoints
	}

	if f.PriceChange5dPct != nil {
		if pts, ok := ladderPoints(s.cfg.PriceChangeRungs, *f.PriceChange5dPct); ok {
			score += pts
			detail["price_change_tier"] = pts
		}
	}
	if f.VolumeRatio != nil {
		if pts, ok := ladderPoints(s.cfg.VolumeRatioRungs, *f.VolumeRatio); ok {
			score += pts
			detail["volume_ratio_tier"] = pts
		}
	}

	return capAt(score, s.cfg.CatalystMomentumCap)
}

// scoreStructuralProtection rewards setups that are hard to dilute away:
// tight float, dilution protection, RegSHO listing.
func (s *Scorer) scoreStructuralProtection(f domain.NormalizedFeatures, detail map[string]float64) float64 {
	var score float64

	if f.FloatShares != nil {
		for _, r := range s.cfg.FloatRungs {
			if *f.FloatShares < r.Max {
				score += r.Points
				detail["float_tier"] = r.Points
				break
			}
		}
	}
	if f.DilutionProtected {
		score += s.cfg.DilutionProtectedPoints
		detail["dilution_protected"] = s.cfg.DilutionProtectedPoints
	}
	if f.RegSHO {
		score += s.cfg.RegSHOPoints
		detail["reg_sho"] = s.cfg.RegSHOPoints
	}

	return capAt(score, s.cfg.StructuralProtectionCap)
}

// ladderPoints returns the points of the single highest-applicable rung.
func ladderPoints(rungs []Rung, value float64) (float64, bool) {
	for _, r := range rungs {
		if value >= r.Min {
			return r.Points, true
		}
	}
	return 0, false
}

func capAt(score, cap float64) float64 {
	return math.Min(score, cap)
}
