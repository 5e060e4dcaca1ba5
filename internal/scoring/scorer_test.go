package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestScorer_FullSqueezeSetup(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:            "GME",
		ShortInterestPct:  fp(45),
		BorrowRatePct:     fp(120),
		DaysToCover:       fp(8),
		FloatShares:       fp(3_000_000),
		DilutionProtected: true,
		PositiveNewsCount: 2,
		PriceChange5dPct:  fp(55),
		VolumeRatio:       fp(6),
		MarketCap:         fp(50_000_000),
		CollectedAt:       time.Now(),
	})

	assert.Equal(t, 20.0, bd.SupplyPressure, "hard-to-borrow 12 + top borrow rung 8")
	assert.Equal(t, 25.0, bd.ShortPosition, "SI 20 + DTC 5")
	assert.Equal(t, 25.0, bd.CatalystMomentum, "news 10 + price 10 + volume 5")
	assert.Equal(t, 10.0, bd.StructuralProtection, "float 7 + dilution 3")
	assert.Equal(t, 80.0, bd.RawScore)
	assert.Equal(t, "nano", bd.Tier)
	assert.Equal(t, 80, bd.CombinedScore)
	assert.Equal(t, domain.RatingSqueeze, bd.Rating)
}

func TestScorer_ZeroBorrowAloneOnLargeCap(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:     "BIGCO",
		ZeroBorrow: true,
		MarketCap:  fp(5_000_000_000),
	})

	assert.Equal(t, 25.0, bd.SupplyPressure)
	assert.Equal(t, 0.0, bd.ShortPosition)
	assert.Equal(t, -5.0, bd.CatalystMomentum, "no news at all is penalized")
	assert.Equal(t, 0.0, bd.StructuralProtection)
	assert.Equal(t, 20.0, bd.RawScore)
	assert.Equal(t, 0.30, bd.TierWeight)
	assert.Equal(t, 6, bd.CombinedScore, "round(20*0.30)")
	assert.Equal(t, domain.RatingCold, bd.Rating)
}

func TestScorer_SupplyPressure_ZeroBorrowDominatesBorrowRate(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	// With zero borrow the borrow-rate ladder must not fire on top.
	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:        "ZB",
		ZeroBorrow:    true,
		BorrowRatePct: fp(250),
	})
	assert.Equal(t, 25.0, bd.SupplyPressure)
}

func TestScorer_SupplyPressure_AvailabilityStacks(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name      string
		available *float64
		want      float64
	}{
		{"no availability data", nil, 25},
		{"zero shares available", fp(0), 30},
		{"thin availability", fp(40_000), 28},
		{"ample availability", fp(2_000_000), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := scorer.Score(domain.NormalizedFeatures{
				Ticker:          "AV",
				ZeroBorrow:      true,
				AvailableShares: tt.available,
			})
			assert.Equal(t, tt.want, bd.SupplyPressure)
		})
	}
}

func TestScorer_SupplyPressure_Cap(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	// 25 + 5 = 30 stays under the cap; force the cap with a tighter config.
	cfg := DefaultConfig()
	cfg.ZeroBorrowPoints = 34
	bd := NewScorer(cfg).Score(domain.NormalizedFeatures{
		Ticker:          "CAP",
		ZeroBorrow:      true,
		AvailableShares: fp(0),
	})
	assert.Equal(t, cfg.SupplyPressureCap, bd.SupplyPressure)

	bd = scorer.Score(domain.NormalizedFeatures{
		Ticker:          "CAP",
		ZeroBorrow:      true,
		AvailableShares: fp(0),
	})
	assert.LessOrEqual(t, bd.SupplyPressure, 35.0)
}

func TestScorer_ShortPosition_HighestRungOnly(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		si   float64
		dtc  *float64
		want float64
	}{
		{45, fp(8), 25},
		{35, fp(4), 18},
		{25, fp(2), 10},
		{15, nil, 5},
		{5, nil, 0},
	}
	for _, tt := range tests {
		bd := scorer.Score(domain.NormalizedFeatures{
			Ticker:           "SP",
			ShortInterestPct: fp(tt.si),
			DaysToCover:      tt.dtc,
		})
		assert.Equal(t, tt.want, bd.ShortPosition, "si=%v dtc=%v", tt.si, tt.dtc)
	}
}

func TestScorer_CatalystMomentum_NewsMutuallyExclusive(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	tests := []struct {
		name     string
		pos, neg int
		want     float64
	}{
		{"negative overrides positive", 3, 1, -10},
		{"positive only", 2, 0, 10},
		{"no news at all", 0, 0, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := scorer.Score(domain.NormalizedFeatures{
				Ticker:            "NWS",
				PositiveNewsCount: tt.pos,
				NegativeNewsCount: tt.neg,
			})
			assert.Equal(t, tt.want, bd.CatalystMomentum)
		})
	}
}

func TestScorer_CatalystMomentum_Cap(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	// 10 + 10 + 5 = 25, exactly at the cap.
	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:            "MAX",
		PositiveNewsCount: 1,
		PriceChange5dPct:  fp(80),
		VolumeRatio:       fp(9),
	})
	assert.Equal(t, 25.0, bd.CatalystMomentum)
}

func TestScorer_StructuralProtection_AllFactors(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:            "STR",
		FloatShares:       fp(4_000_000),
		DilutionProtected: true,
		RegSHO:            true,
	})
	assert.Equal(t, 15.0, bd.StructuralProtection, "7 + 3 + 5 hits the cap exactly")

	bd = scorer.Score(domain.NormalizedFeatures{
		Ticker:      "STR",
		FloatShares: fp(15_000_000),
	})
	assert.Equal(t, 2.0, bd.StructuralProtection)
}

func TestScorer_RawScoreIsExactSum(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:            "SUM",
		ShortInterestPct:  fp(32),
		BorrowRatePct:     fp(60),
		DaysToCover:       fp(3.5),
		FloatShares:       fp(8_000_000),
		NegativeNewsCount: 1,
		PriceChange5dPct:  fp(12),
		VolumeRatio:       fp(2),
		MarketCap:         fp(300_000_000),
	})
	assert.Equal(t,
		bd.SupplyPressure+bd.ShortPosition+bd.CatalystMomentum+bd.StructuralProtection,
		bd.RawScore)
}

func TestScorer_MissingOptionalsScoreZero(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	bd := scorer.Score(domain.NormalizedFeatures{Ticker: "EMPTY"})
	assert.Equal(t, 0.0, bd.SupplyPressure)
	assert.Equal(t, 0.0, bd.ShortPosition)
	assert.Equal(t, -5.0, bd.CatalystMomentum)
	assert.Equal(t, 0.0, bd.StructuralProtection)
	assert.Equal(t, -5.0, bd.RawScore)
}

func TestScorer_Idempotent(t *testing.T) {
	scorer := NewScorer(DefaultConfig())
	features := domain.NormalizedFeatures{
		Ticker:            "IDEM",
		ShortInterestPct:  fp(22),
		BorrowRatePct:     fp(55),
		FloatShares:       fp(9_000_000),
		PositiveNewsCount: 1,
		VolumeRatio:       fp(3.2),
		MarketCap:         fp(150_000_000),
	}

	first := scorer.Score(features)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, scorer.Score(features))
	}
}

func TestScorer_SubScoresStayWithinBounds(t *testing.T) {
	scorer := NewScorer(DefaultConfig())

	// Everything maxed simultaneously.
	bd := scorer.Score(domain.NormalizedFeatures{
		Ticker:            "ALL",
		ShortInterestPct:  fp(90),
		BorrowRatePct:     fp(400),
		ZeroBorrow:        true,
		DaysToCover:       fp(20),
		FloatShares:       fp(1_000_000),
		AvailableShares:   fp(0),
		DilutionProtected: true,
		RegSHO:            true,
		PositiveNewsCount: 5,
		PriceChange5dPct:  fp(200),
		VolumeRatio:       fp(12),
	})

	assert.LessOrEqual(t, bd.SupplyPressure, 35.0)
	assert.LessOrEqual(t, bd.ShortPosition, 25.0)
	assert.LessOrEqual(t, bd.CatalystMomentum, 25.0)
	assert.LessOrEqual(t, bd.StructuralProtection, 15.0)
	assert.LessOrEqual(t, bd.RawScore, 100.0)
}
