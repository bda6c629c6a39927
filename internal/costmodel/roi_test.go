package costmodel

import (
	"math"
	"testing"
)

func TestProjectROI_Schedule(t *testing.T) {
	schedule, breakeven := ProjectROI(200_000, 100_000)

	if len(schedule) != ROIHorizonYears {
		t.Fatalf("expected %d years, got %d", ROIHorizonYears, len(schedule))
	}

	for i, y := range schedule {
		year := i + 1
		if y.Year != year {
			t.Errorf("row %d: year = %d, want %d", i, y.Year, year)
		}
		approx(t, "CumInvestment", y.CumInvestment, 200_000*float64(year))
		approx(t, "CumSavings", y.CumSavings, 100_000*float64(year))
		approx(t, "ROI", y.ROI, 0.5)
	}

	if breakeven.Never {
		t.Fatal("expected a breakeven point")
	}
	// 200000 / (100000/12) = 24 months
	approx(t, "Breakeven.Months", breakeven.Months, 24)
}

func TestProjectROI_NeverOnZeroSavings(t *testing.T) {
	for _, savings := range []float64{0, -50_000} {
		schedule, breakeven := ProjectROI(200_000, savings)
		if !breakeven.Never {
			t.Errorf("savings %v: expected never-breakeven", savings)
		}
		for _, y := range schedule {
			if math.IsNaN(y.ROI) || math.IsInf(y.ROI, 0) {
				t.Errorf("savings %v: non-finite ROI %v", savings, y.ROI)
			}
		}
	}
}

func TestProjectROI_ZeroInvestmentGuard(t *testing.T) {
	schedule, _ := ProjectROI(0, 100_000)
	for _, y := range schedule {
		if y.ROI != 0 {
			t.Errorf("expected ROI 0 with zero investment, got %v", y.ROI)
		}
	}
}
