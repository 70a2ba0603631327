package loyalty

import (
	"time"

	"loyalty-service/models"
)

// TierThreshold maps a tier to the lifetime points needed to reach it.
type TierThreshold struct {
	Tier      models.Tier
	MinPoints int64
}

// Config holds the tunable loyalty constants. Callers inject it so tests can
// override thresholds and rates without touching package state.
type Config struct {
	// PointsPerUnit is how many points one currency unit earns before the
	// segment multiplier is applied.
	PointsPerUnit float64

	// SegmentMultipliers scale accrued points per customer segment.
	// Segments missing from the map earn ×1.
	SegmentMultipliers map[models.CustomerSegment]float64

	// TierThresholds must be ordered lowest tier first.
	TierThresholds []TierThreshold

	// ClaimTTL is how long a claim stays redeemable after claiming.
	ClaimTTL time.Duration
}

var DefaultConfig = Config{
	PointsPerUnit: 1,
	SegmentMultipliers: map[models.CustomerSegment]float64{
		models.SegmentVIP:       2,
		models.SegmentWholesale: 1.5,
		models.SegmentExport:    1.2,
		models.SegmentRegular:   1,
	},
	TierThresholds: []TierThreshold{
		{models.TierBronze, 0},
		{models.TierSilver, 1_000},
		{models.TierGold, 5_000},
		{models.TierPlatinum, 15_000},
		{models.TierDiamond, 50_000},
	},
	ClaimTTL: 30 * 24 * time.Hour,
}
