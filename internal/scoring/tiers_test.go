package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTier_Buckets(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		marketCap  *float64
		wantTier   string
		wantWeight float64
	}{
		{"nano", fp(50_000_000), "nano", 1.00},
		{"nano upper edge", fp(99_999_999), "nano", 1.00},
		{"boundary belongs to larger tier", fp(100_000_000), "micro", 0.85},
		{"micro", fp(400_000_000), "micro", 0.85},
		{"small lower bound inclusive", fp(500_000_000), "small", 0.60},
		{"small", fp(1_500_000_000), "small", 0.60},
		{"mid large lower bound inclusive", fp(2_000_000_000), "mid_large", 0.30},
		{"mid large", fp(50_000_000_000), "mid_large", 0.30},
		{"unknown cap scores like nano", nil, "unknown", 1.00},
		{"zero cap is still nano", fp(0), "nano", 1.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, weight := cfg.ClassifyTier(tt.marketCap)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantWeight, weight)
		})
	}
}
