package loyalty

import "loyalty-service/models"

// TierForPoints returns the highest tier whose threshold is <= totalEarned.
// Negative input counts as 0, so the floor is always the lowest tier.
func (c Config) TierForPoints(totalEarned int64) models.Tier {
	if totalEarned < 0 {
		totalEarned = 0
	}
	for i := len(c.TierThresholds) - 1; i >= 0; i-- {
		if totalEarned >= c.TierThresholds[i].MinPoints {
			return c.TierThresholds[i].Tier
		}
	}
	return c.TierThresholds[0].Tier
}

// TierProgress describes how far an account is from the next tier.
type TierProgress struct {
	Current      models.Tier  `json:"current"`
	Next         *models.Tier `json:"next,omitempty"` // nil at the top tier
	PointsNeeded int64        `json:"points_needed"`
	Percent      float64      `json:"percent"` // 0–100 within the current band
}

// Progress computes progress from totalEarned toward the next threshold.
func (c Config) Progress(totalEarned int64) TierProgress {
	if totalEarned < 0 {
		totalEarned = 0
	}

	idx := 0
	for i := len(c.TierThresholds) - 1; i >= 0; i-- {
		if totalEarned >= c.TierThresholds[i].MinPoints {
			idx = i
			break
		}
	}

	prog := TierProgress{Current: c.TierThresholds[idx].Tier}
	if idx == len(c.TierThresholds)-1 {
		prog.Percent = 100
		return prog
	}

	next := c.TierThresholds[idx+1]
	prog.Next = &next.Tier
	prog.PointsNeeded = next.MinPoints - totalEarned

	span := next.MinPoints - c.TierThresholds[idx].MinPoints
	if span > 0 {
		prog.Percent = float64(totalEarned-c.TierThresholds[idx].MinPoints) / float64(span) * 100
	}
	if prog.Percent < 0 {
		prog.Percent = 0
	}
	return prog
}
