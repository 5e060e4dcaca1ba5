package scoring

import (
	"fmt"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// Rung is one step of a threshold ladder. Within a ladder only the single
// highest-applicable rung fires; distinct ladders are additive.
type Rung struct {
	Min    float64 `yaml:"min"`
	Points float64 `yaml:"points"`
}

// FloatRung is a ladder step keyed on an exclusive upper bound (smaller
// float earns more points).
type FloatRung struct {
	Max    float64 `yaml:"max"`
	Points float64 `yaml:"points"`
}

// Tier is one market-cap bucket. MaxCap is the exclusive upper bound in
// dollars; the last tier leaves MaxCap at 0 for unbounded.
type Tier struct {
	Name   string  `yaml:"name"`
	MaxCap float64 `yaml:"max_cap"`
	Weight float64 `yaml:"weight"`
}

// RatingBand maps a minimum combined score to a rating. Bands are evaluated
// top-down, first match wins; anything below the last band is COLD.
type RatingBand struct {
	Rating domain.Rating `yaml:"rating"`
	Min    int           `yaml:"min"`
}

// Config holds every threshold table the scorer uses. All tables are
// validated once at startup; a malformed table prevents initialization.
type Config struct {
	// Sub-score caps
	SupplyPressureCap       float64 `yaml:"supply_pressure_cap"`        // 35
	ShortPositionCap        float64 `yaml:"short_position_cap"`         // 25
	CatalystMomentumCap     float64 `yaml:"catalyst_momentum_cap"`      // 25
	StructuralProtectionCap float64 `yaml:"structural_protection_cap"`  // 15

	// Supply pressure
	ZeroBorrowPoints   float64 `yaml:"zero_borrow_points"`    // 25
	HardToBorrowMin    float64 `yaml:"hard_to_borrow_min"`    // borrow rate ≥100
	HardToBorrowPoints float64 `yaml:"hard_to_borrow_points"` // 12
	BorrowRateRungs    []Rung  `yaml:"borrow_rate_rungs"`

	AvailabilityZeroPoints float64 `yaml:"availability_zero_points"` // 5
	AvailabilityLowMax     float64 `yaml:"availability_low_max"`     // <50k shares
	AvailabilityLowPoints  float64 `yaml:"availability_low_points"`  // 3

	// Short position
	ShortInterestRungs []Rung `yaml:"short_interest_rungs"`
	DaysToCoverRungs   []Rung `yaml:"days_to_cover_rungs"`

	// Catalyst & momentum
	NegativeNewsPoints float64 `yaml:"negative_news_points"` // -10
	PositiveNewsPoints float64 `yaml:"positive_news_points"` // +10
	NoNewsPoints       float64 `yaml:"no_news_points"`       // -5
	PriceChangeRungs   []Rung  `yaml:"price_change_rungs"`
	VolumeRatioRungs   []Rung  `yaml:"volume_ratio_rungs"`

	// Structural protection
	FloatRungs              []FloatRung `yaml:"float_rungs"`
	DilutionProtectedPoints float64     `yaml:"dilution_protected_points"` // 3
	RegSHOPoints            float64     `yaml:"reg_sho_points"`            // 5

	// Market-cap tiers, ascending by MaxCap, inclusive lower bounds.
	Tiers         []Tier  `yaml:"tiers"`
	UnknownWeight float64 `yaml:"unknown_weight"` // weight when market cap is unavailable

	// Rating bands, descending by Min.
	RatingBands []RatingBand `yaml:"rating_bands"`
}

// DefaultConfig returns the production scoring tables.
func DefaultConfig() Config {
	return Config{
		SupplyPressureCap:       35,
		ShortPositionCap:        25,
		CatalystMomentumCap:     25,
		StructuralProtectionCap: 15,

		ZeroBorrowPoints:   25,
		HardToBorrowMin:    100,
		HardToBorrowPoints: 12,
		BorrowRateRungs: []Rung{
			{Min: 100, Points: 8},
			{Min: 50, Points: 5},
			{Min: 20, Points: 2},
		},
		AvailabilityZeroPoints: 5,
		AvailabilityLowMax:     50000,
		AvailabilityLowPoints:  3,

		ShortInterestRungs: []Rung{
			{Min: 40, Points: 20},
			{Min: 30, Points: 15},
			{Min: 20, Points: 10},
			{Min: 10, Points: 5},
		},
		DaysToCoverRungs: []Rung{
			{Min: 7, Points: 5},
			{Min: 3, Points: 3},
		},

		NegativeNewsPoints: -10,
		PositiveNewsPoints: 10,
		NoNewsPoints:       -5,
		PriceChangeRungs: []Rung{
			{Min: 50, Points: 10},
			{Min: 20, Points: 7},
			{Min: 10, Points: 4},
		},
		VolumeRatioRungs: []Rung{
			{Min: 5, Points: 5},
			{Min: 3, Points: 3},
			{Min: 1.5, Points: 1},
		},

		FloatRungs: []FloatRung{
			{Max: 5_000_000, Points: 7},
			{Max: 10_000_000, Points: 4},
			{Max: 20_000_000, Points: 2},
		},
		DilutionProtectedPoints: 3,
		RegSHOPoints:            5,

		Tiers: []Tier{
			{Name: "nano", MaxCap: 100_000_000, Weight: 1.00},
			{Name: "micro", MaxCap: 500_000_000, Weight: 0.85},
			{Name: "small", MaxCap: 2_000_000_000, Weight: 0.60},
			{Name: "mid_large", MaxCap: 0, Weight: 0.30},
		},
		UnknownWeight: 1.00,

		RatingBands: []RatingBand{
			{Rating: domain.RatingSqueeze, Min: 75},
			{Rating: domain.RatingHot, Min: 55},
			{Rating: domain.RatingWatch, Min: 35},
		},
	}
}

// Validate checks every table for structural soundness. Any violation is
// fatal at startup.
func (c Config) Validate() error {
	caps := map[string]float64{
		"supply_pressure_cap":       c.SupplyPressureCap,
		"short_position_cap":        c.ShortPositionCap,
		"catalyst_momentum_cap":     c.CatalystMomentumCap,
		"structural_protection_cap": c.StructuralProtectionCap,
	}
	for name, v := range caps {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, v)
		}
	}

	ladders := map[string][]Rung{
		"borrow_rate_rungs":    c.BorrowRateRungs,
		"short_interest_rungs": c.ShortInterestRungs,
		"days_to_cover_rungs":  c.DaysToCoverRungs,
		"price_change_rungs":   c.PriceChangeRungs,
		"volume_ratio_rungs":   c.VolumeRatioRungs,
	}
	for name, rungs := range ladders {
		if len(rungs) == 0 {
			return fmt.Errorf("%s is empty", name)
		}
		for i := 1; i < len(rungs); i++ {
			if rungs[i].Min >= rungs[i-1].Min {
				return fmt.Errorf("%s thresholds must be strictly descending (%v then %v)",
					name, rungs[i-1].Min, rungs[i].Min)
			}
		}
	}

	if len(c.FloatRungs) == 0 {
		return fmt.Errorf("float_rungs is empty")
	}
	for i := 1; i < len(c.FloatRungs); i++ {
		if c.FloatRungs[i].Max <= c.FloatRungs[i-1].Max {
			return fmt.Errorf("float_rungs bounds must be strictly ascending (%v then %v)",
				c.FloatRungs[i-1].Max, c.FloatRungs[i].Max)
		}
	}

	if len(c.Tiers) < 2 {
		return fmt.Errorf("tiers table needs at least two buckets, got %d", len(c.Tiers))
	}
	last := len(c.Tiers) - 1
	for i, t := range c.Tiers {
		if t.Name == "" {
			return fmt.Errorf("tier %d has no name", i)
		}
		if t.Weight <= 0 {
			return fmt.Errorf("tier %q weight must be positive, got %v", t.Name, t.Weight)
		}
		if i == last {
			if t.MaxCap != 0 {
				return fmt.Errorf("last tier %q must be unbounded (max_cap 0), got %v", t.Name, t.MaxCap)
			}
			continue
		}
		if t.MaxCap <= 0 {
			return fmt.Errorf("tier %q needs a positive max_cap", t.Name)
		}
		if i > 0 && t.MaxCap <= c.Tiers[i-1].MaxCap {
			return fmt.Errorf("tier bounds must be strictly ascending (%q then %q)",
				c.Tiers[i-1].Name, t.Name)
		}
	}
	if c.UnknownWeight <= 0 {
		return fmt.Errorf("unknown_weight must be positive, got %v", c.UnknownWeight)
	}

	if len(c.RatingBands) == 0 {
		return fmt.Errorf("rating_bands is empty")
	}
	for i, b := range c.RatingBands {
		if b.Rating.Rank() < 0 {
			return fmt.Errorf("rating_bands[%d] has unknown rating %q", i, b.Rating)
		}
		if i > 0 && b.Min >= c.RatingBands[i-1].Min {
			return fmt.Errorf("rating band thresholds must be strictly descending (%d then %d)",
				c.RatingBands[i-1].Min, b.Min)
		}
	}

	return nil
}
