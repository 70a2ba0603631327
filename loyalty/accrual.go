package loyalty

import (
	"math"

	"loyalty-service/models"
)

// PointsForPurchase converts a purchase amount into earned points:
// floor(amount × points-per-unit), scaled by the segment multiplier and
// rounded to the nearest integer. Non-positive amounts earn nothing.
func (c Config) PointsForPurchase(amount float64, segment models.CustomerSegment) int64 {
	if amount <= 0 {
		return 0
	}

	base := math.Floor(amount * c.PointsPerUnit)

	multiplier, ok := c.SegmentMultipliers[segment]
	if !ok {
		multiplier = 1
	}

	return int64(math.Round(base * multiplier))
}
