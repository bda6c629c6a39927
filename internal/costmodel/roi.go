package costmodel

import "github.com/meshwise/meshcost/internal/model"

// AnnualPlatformInvestment is the assumed yearly platform cost
// (licensing, enablement, operations) set against the savings. Like the
// throughput constant, it is a named constant flagged as a tunable
// parameter for a product decision, not a config knob.
const AnnualPlatformInvestment = 200_000.0

// ROIHorizonYears is the length of the projected schedule.
const ROIHorizonYears = 3

// ProjectROI builds the cumulative investment/savings/ROI schedule over
// the fixed horizon and the breakeven point. A non-positive annual
// savings figure yields Breakeven.Never rather than a division error,
// and the per-year ROI is 0 whenever the cumulative investment is 0.
func ProjectROI(annualInvestment, annualSavings float64) ([]model.ROIYear, model.Breakeven) {
	schedule := make([]model.ROIYear, 0, ROIHorizonYears)
	for year := 1; year <= ROIHorizonYears; year++ {
		row := model.ROIYear{
			Year:          year,
			CumInvestment: annualInvestment * float64(year),
			CumSavings:    annualSavings * float64(year),
		}
		if row.CumInvestment != 0 {
			row.ROI = row.CumSavings / row.CumInvestment
		}
		schedule = append(schedule, row)
	}

	if annualSavings <= 0 {
		return schedule, model.BreakevenNever()
	}
	return schedule, model.BreakevenAfter(annualInvestment / (annualSavings / 12))
}
