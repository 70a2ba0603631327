package loyalty

import (
	"testing"

	"loyalty-service/models"
)

func TestPointsForPurchase_Segments(t *testing.T) {
	cfg := DefaultConfig

	cases := []struct {
		amount  float64
		segment models.CustomerSegment
		want    int64
	}{
		{100, models.SegmentRegular, 100},
		{100, models.SegmentVIP, 200},
		{100, models.SegmentWholesale, 150},
		{100, models.SegmentExport, 120},
		{100.99, models.SegmentRegular, 100},  // floor before multiplier
		{99.5, models.SegmentWholesale, 149},  // floor(99.5)=99, 99*1.5=148.5 → 149
		{33.33, models.SegmentExport, 40},     // floor(33.33)=33, 33*1.2=39.6 → 40
		{0, models.SegmentVIP, 0},
		{-25, models.SegmentVIP, 0},
		{0.99, models.SegmentRegular, 0},
	}
	for _, tc := range cases {
		if got := cfg.PointsForPurchase(tc.amount, tc.segment); got != tc.want {
			t.Errorf("PointsForPurchase(%v, %s) = %d, want %d", tc.amount, tc.segment, got, tc.want)
		}
	}
}

func TestPointsForPurchase_UnknownSegmentEarnsBase(t *testing.T) {
	if got := DefaultConfig.PointsForPurchase(50, models.CustomerSegment("MYSTERY")); got != 50 {
		t.Errorf("unknown segment earned %d, want 50", got)
	}
}

func TestPointsForPurchase_CustomRate(t *testing.T) {
	cfg := DefaultConfig
	cfg.PointsPerUnit = 0.5

	// floor(200 * 0.5) = 100, VIP ×2 = 200
	if got := cfg.PointsForPurchase(200, models.SegmentVIP); got != 200 {
		t.Errorf("PointsForPurchase(200, VIP) at rate 0.5 = %d, want 200", got)
	}
}
