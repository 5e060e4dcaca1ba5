package scoring

import (
	"math"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// CombineScore applies the market-cap tier weight to a raw score, rounding
// half away from zero to the nearest integer.
func CombineScore(rawScore, tierWeight float64) int {
	return int(math.Round(rawScore * tierWeight))
}

// AssignRating maps a combined score to its band. Bands are evaluated
// top-down, first match wins; below every band is COLD.
func (c Config) AssignRating(combined int) domain.Rating {
	for _, b := range c.RatingBands {
		if combined >= b.Min {
			return b.Rating
		}
	}
	return domain.RatingCold
}
