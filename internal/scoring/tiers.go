package scoring

// ClassifyTier buckets a market cap into its tier name and weight. Bounds
// are inclusive at the bottom: a cap sitting exactly on a boundary belongs
// to the larger tier. A nil market cap gets the unknown weight, treated the
// same as the smallest bucket.
func (c Config) ClassifyTier(marketCap *float64) (string, float64) {
	if marketCap == nil {
		return "unknown", c.UnknownWeight
	}
	mc := *marketCap
	last := len(c.Tiers) - 1
	for i, t := range c.Tiers {
		if i == last || mc < t.MaxCap {
			return t.Name, t.Weight
		}
	}
	// unreachable with a validated table
	t := c.Tiers[last]
	return t.Name, t.Weight
}
