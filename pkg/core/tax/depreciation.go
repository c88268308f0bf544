// Package tax overlays depreciation, cost segregation, disposition tax,
// after-tax IRR, and 1031 exchange deadline math on top of the cash-flow
// model. Everything is deterministic arithmetic; no rate tables are
// fetched from anywhere.
package tax

import (
	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/returns"
)

// ProjectionHorizonYears is the fixed length of the depreciation
// projections reported to callers.
const ProjectionHorizonYears = 10

// UsefulLifeYears returns the straight-line recovery period for a
// property type: 27.5 years for residential classes, 39 for everything
// else (nonresidential real property).
func UsefulLifeYears(pt assumption.PropertyType) float64 {
	switch pt {
	case assumption.PropMultifamily, assumption.PropMobileHomePark:
		return 27.5
	default:
		return 39.0
	}
}

// DepreciationYear is one projected year of a depreciation schedule.
type DepreciationYear struct {
	Year            int     `json:"year"`
	AnnualDeduction float64 `json:"annual_deduction"`
	RemainingBasis  float64 `json:"remaining_basis"`
}

// DepreciationSchedule projects straight-line depreciation over the
// fixed 10-year horizon starting at the placed-in-service year.
func DepreciationSchedule(costBasis float64, pt assumption.PropertyType, placedInServiceYear int) []DepreciationYear {
	life := UsefulLifeYears(pt)
	annual := costBasis / life
	out := make([]DepreciationYear, 0, ProjectionHorizonYears)
	remaining := costBasis
	for i := 0; i < ProjectionHorizonYears; i++ {
		deduction := annual
		if deduction > remaining {
			deduction = remaining
		}
		remaining -= deduction
		out = append(out, DepreciationYear{
			Year:            placedInServiceYear + i,
			AnnualDeduction: deduction,
			RemainingBasis:  remaining,
		})
	}
	return out
}

// Cost-segregation reclassification fractions. A segregation study
// typically carves personal property and land improvements out of the
// building basis into 5/7/15-year MACRS classes.
const (
	segFiveYearPct    = 0.15
	segSevenYearPct   = 0.05
	segFifteenYearPct = 0.10
)

// SegregatedSchedule projects depreciation with cost-segregation
// reclassification: 5/7/15-year components depreciate straight-line over
// their shorter lives, the remainder over the building life.
func SegregatedSchedule(costBasis float64, pt assumption.PropertyType, placedInServiceYear int) []DepreciationYear {
	five := costBasis * segFiveYearPct
	seven := costBasis * segSevenYearPct
	fifteen := costBasis * segFifteenYearPct
	building := costBasis - five - seven - fifteen
	life := UsefulLifeYears(pt)

	out := make([]DepreciationYear, 0, ProjectionHorizonYears)
	remaining := costBasis
	for i := 0; i < ProjectionHorizonYears; i++ {
		deduction := building / life
		if i < 5 {
			deduction += five / 5.0
		}
		if i < 7 {
			deduction += seven / 7.0
		}
		if i < 15 {
			deduction += fifteen / 15.0
		}
		if deduction > remaining {
			deduction = remaining
		}
		remaining -= deduction
		out = append(out, DepreciationYear{
			Year:            placedInServiceYear + i,
			AnnualDeduction: deduction,
			RemainingBasis:  remaining,
		})
	}
	return out
}

// CostSegResult summarizes the value of accelerating deductions.
type CostSegResult struct {
	FirstYearStraightLine float64 `json:"first_year_straight_line"`
	FirstYearSegregated   float64 `json:"first_year_segregated"`
	FirstYearDelta        float64 `json:"first_year_delta"`
	NPVBenefit            float64 `json:"npv_benefit"`
	DiscountRate          float64 `json:"discount_rate"`
}

// CostSegregationEstimate compares first-year deductions with and
// without segregation and values the acceleration: the NPV, at the
// given discount rate and ordinary tax rate, of the per-year deduction
// deltas over the projection horizon. Total deductions are unchanged;
// only their timing moves, so the benefit is pure time value.
func CostSegregationEstimate(totalBasis float64, pt assumption.PropertyType, ordinaryRate, discountRate float64) CostSegResult {
	straight := DepreciationSchedule(totalBasis, pt, 0)
	segregated := SegregatedSchedule(totalBasis, pt, 0)

	deltas := make([]float64, ProjectionHorizonYears+1)
	for i := 0; i < ProjectionHorizonYears; i++ {
		deltas[i+1] = (segregated[i].AnnualDeduction - straight[i].AnnualDeduction) * ordinaryRate
	}

	return CostSegResult{
		FirstYearStraightLine: straight[0].AnnualDeduction,
		FirstYearSegregated:   segregated[0].AnnualDeduction,
		FirstYearDelta:        segregated[0].AnnualDeduction - straight[0].AnnualDeduction,
		NPVBenefit:            returns.NPV(discountRate, deltas),
		DiscountRate:          discountRate,
	}
}
