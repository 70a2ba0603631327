package loyalty

import (
	"testing"

	"loyalty-service/models"
)

func TestTierForPoints_Thresholds(t *testing.T) {
	cfg := DefaultConfig

	cases := []struct {
		points int64
		want   models.Tier
	}{
		{-50, models.TierBronze},
		{0, models.TierBronze},
		{999, models.TierBronze},
		{1_000, models.TierSilver},
		{4_999, models.TierSilver},
		{5_000, models.TierGold},
		{14_999, models.TierGold},
		{15_000, models.TierPlatinum},
		{49_999, models.TierPlatinum},
		{50_000, models.TierDiamond},
		{1_000_000, models.TierDiamond},
	}
	for _, tc := range cases {
		if got := cfg.TierForPoints(tc.points); got != tc.want {
			t.Errorf("TierForPoints(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}

func TestTierForPoints_Monotonic(t *testing.T) {
	cfg := DefaultConfig

	prev := 0
	for p := int64(0); p <= 60_000; p += 137 {
		idx := models.TierIndex(cfg.TierForPoints(p))
		if idx < prev {
			t.Fatalf("tier index dropped from %d to %d at %d points", prev, idx, p)
		}
		prev = idx
	}
}

func TestProgress_MiddleOfBand(t *testing.T) {
	cfg := DefaultConfig

	// Halfway between SILVER (1000) and GOLD (5000)
	prog := cfg.Progress(3_000)
	if prog.Current != models.TierSilver {
		t.Errorf("current = %s, want SILVER", prog.Current)
	}
	if prog.Next == nil || *prog.Next != models.TierGold {
		t.Errorf("next = %v, want GOLD", prog.Next)
	}
	if prog.PointsNeeded != 2_000 {
		t.Errorf("points needed = %d, want 2000", prog.PointsNeeded)
	}
	if prog.Percent != 50 {
		t.Errorf("percent = %f, want 50", prog.Percent)
	}
}

func TestProgress_TopTier(t *testing.T) {
	prog := DefaultConfig.Progress(80_000)
	if prog.Current != models.TierDiamond {
		t.Errorf("current = %s, want DIAMOND", prog.Current)
	}
	if prog.Next != nil {
		t.Errorf("next = %v, want nil at top tier", prog.Next)
	}
	if prog.Percent != 100 {
		t.Errorf("percent = %f, want 100", prog.Percent)
	}
}

func TestProgress_NegativeClamped(t *testing.T) {
	prog := DefaultConfig.Progress(-10)
	if prog.Current != models.TierBronze {
		t.Errorf("current = %s, want BRONZE", prog.Current)
	}
	if prog.Percent < 0 {
		t.Errorf("percent = %f, must not be negative", prog.Percent)
	}
	if prog.PointsNeeded != 1_000 {
		t.Errorf("points needed = %d, want 1000", prog.PointsNeeded)
	}
}

func TestTierForPoints_CustomThresholds(t *testing.T) {
	cfg := DefaultConfig
	cfg.TierThresholds = []TierThreshold{
		{models.TierBronze, 0},
		{models.TierSilver, 10},
	}

	if got := cfg.TierForPoints(9); got != models.TierBronze {
		t.Errorf("TierForPoints(9) = %s, want BRONZE", got)
	}
	if got := cfg.TierForPoints(10); got != models.TierSilver {
		t.Errorf("TierForPoints(10) = %s, want SILVER", got)
	}
}
