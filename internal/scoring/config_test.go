package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

func TestDefaultConfig_Validates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cap", func(c *Config) { c.SupplyPressureCap = 0 }},
		{"empty ladder", func(c *Config) { c.ShortInterestRungs = nil }},
		{"unordered ladder", func(c *Config) {
			c.BorrowRateRungs = []Rung{{Min: 20, Points: 2}, {Min: 100, Points: 8}}
		}},
		{"duplicate ladder threshold", func(c *Config) {
			c.DaysToCoverRungs = []Rung{{Min: 7, Points: 5}, {Min: 7, Points: 3}}
		}},
		{"unordered float rungs", func(c *Config) {
			c.FloatRungs = []FloatRung{{Max: 20e6, Points: 2}, {Max: 5e6, Points: 7}}
		}},
		{"single tier", func(c *Config) { c.Tiers = c.Tiers[:1] }},
		{"unnamed tier", func(c *Config) { c.Tiers[0].Name = "" }},
		{"negative tier weight", func(c *Config) { c.Tiers[1].Weight = -0.85 }},
		{"bounded last tier", func(c *Config) { c.Tiers[len(c.Tiers)-1].MaxCap = 9e9 }},
		{"unordered tier bounds", func(c *Config) { c.Tiers[1].MaxCap = 50_000_000 }},
		{"zero unknown weight", func(c *Config) { c.UnknownWeight = 0 }},
		{"empty rating bands", func(c *Config) { c.RatingBands = nil }},
		{"unknown rating", func(c *Config) { c.RatingBands[0].Rating = domain.Rating("BLAZING") }},
		{"unordered rating bands", func(c *Config) {
			c.RatingBands = []RatingBand{
				{Rating: domain.RatingWatch, Min: 35},
				{Rating: domain.RatingSqueeze, Min: 75},
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
