package tax

import (
	"math"
	"testing"

	"gpc_underwriting/pkg/core/assumption"
)

func TestUsefulLife(t *testing.T) {
	if got := UsefulLifeYears(assumption.PropOffice); got != 39.0 {
		t.Errorf("office life = %f, want 39", got)
	}
	if got := UsefulLifeYears(assumption.PropMultifamily); got != 27.5 {
		t.Errorf("multifamily life = %f, want 27.5", got)
	}
}

func TestDepreciationSchedule(t *testing.T) {
	basis := 3_900_000.0
	sched := DepreciationSchedule(basis, assumption.PropWarehouse, 2026)

	if len(sched) != ProjectionHorizonYears {
		t.Fatalf("schedule length = %d, want %d", len(sched), ProjectionHorizonYears)
	}
	if sched[0].Year != 2026 || sched[9].Year != 2035 {
		t.Errorf("year range = %d..%d, want 2026..2035", sched[0].Year, sched[9].Year)
	}

	// 3.9M over 39 years: exactly 100k/yr.
	for i, row := range sched {
		if math.Abs(row.AnnualDeduction-100_000) > 1e-6 {
			t.Errorf("year %d deduction = %f, want 100000", row.Year, row.AnnualDeduction)
		}
		wantRemaining := basis - 100_000*float64(i+1)
		if math.Abs(row.RemainingBasis-wantRemaining) > 1e-6 {
			t.Errorf("year %d remaining = %f, want %f", row.Year, row.RemainingBasis, wantRemaining)
		}
	}
}

func TestSegregatedSchedule_AcceleratesEarlyYears(t *testing.T) {
	basis := 3_900_000.0
	straight := DepreciationSchedule(basis, assumption.PropWarehouse, 2026)
	segregated := SegregatedSchedule(basis, assumption.PropWarehouse, 2026)

	if segregated[0].AnnualDeduction <= straight[0].AnnualDeduction {
		t.Errorf("segregation did not accelerate: %f vs %f",
			segregated[0].AnnualDeduction, straight[0].AnnualDeduction)
	}

	// After the 7-year class runs off, the segregated deduction drops
	// below the pure straight-line deduction.
	if segregated[8].AnnualDeduction >= straight[8].AnnualDeduction {
		t.Errorf("late-year segregated deduction should be smaller: %f vs %f",
			segregated[8].AnnualDeduction, straight[8].AnnualDeduction)
	}
}

func TestCostSegregationEstimate(t *testing.T) {
	res := CostSegregationEstimate(3_900_000, assumption.PropWarehouse, 0.37, 0.08)

	if res.FirstYearDelta <= 0 {
		t.Errorf("first-year delta = %f, want positive", res.FirstYearDelta)
	}
	if res.NPVBenefit <= 0 {
		t.Errorf("NPV benefit = %f, want positive", res.NPVBenefit)
	}
	if res.FirstYearSegregated-res.FirstYearStraightLine != res.FirstYearDelta {
		t.Error("delta inconsistent with components")
	}
}

func profile() assumption.TaxProfile {
	return assumption.TaxProfile{
		PropertyType:        assumption.PropWarehouse,
		PlacedInServiceYear: 2026,
		RecaptureRate:       0.25,
		CapitalGainsRate:    0.20,
		OrdinaryRate:        0.37,
	}
}

func TestEstimateDispositionTax(t *testing.T) {
	// 3.9M basis, sold for 5M after 5 years: 500k accumulated dep.
	est := EstimateDispositionTax(3_900_000, 5_000_000, profile(), 5)

	if math.Abs(est.AccumulatedDep-500_000) > 1e-6 {
		t.Errorf("accumulated dep = %f, want 500000", est.AccumulatedDep)
	}
	if math.Abs(est.AdjustedBasis-3_400_000) > 1e-6 {
		t.Errorf("adjusted basis = %f, want 3400000", est.AdjustedBasis)
	}
	if math.Abs(est.TotalGain-1_600_000) > 1e-6 {
		t.Errorf("gain = %f, want 1600000", est.TotalGain)
	}
	// Recapture 500k @ 25% + capital gain 1.1M @ 20%.
	wantTax := 125_000 + 220_000.0
	if math.Abs(est.TotalDispositionTax-wantTax) > 1e-6 {
		t.Errorf("tax = %f, want %f", est.TotalDispositionTax, wantTax)
	}
}

func TestEstimateDispositionTax_LossOwesNothing(t *testing.T) {
	est := EstimateDispositionTax(3_900_000, 3_000_000, profile(), 5)
	if est.TotalDispositionTax != 0 {
		t.Errorf("loss sale tax = %f, want 0", est.TotalDispositionTax)
	}
}

func TestAfterTaxIRR_NeverExceedsPreTax(t *testing.T) {
	flows := []float64{-1_000_000, 80_000, 85_000, 90_000, 95_000, 1_500_000}
	pre := AfterTaxIRR(flows, 0, 5)
	post := AfterTaxIRR(flows, 200_000, 5)

	if pre == nil || post == nil {
		t.Fatal("IRR missing")
	}
	if *post > *pre {
		t.Errorf("after-tax IRR %f exceeds pre-tax %f", *post, *pre)
	}
}

func TestExchangeDeadlines(t *testing.T) {
	d, err := ExchangeDeadlinesFrom("2026-03-15")
	if err != nil {
		t.Fatalf("deadlines failed: %v", err)
	}
	if d.IdentificationDeadline != "2026-04-29" {
		t.Errorf("identification deadline = %s, want 2026-04-29", d.IdentificationDeadline)
	}
	if d.ClosingDeadline != "2026-09-11" {
		t.Errorf("closing deadline = %s, want 2026-09-11", d.ClosingDeadline)
	}

	if _, err := ExchangeDeadlinesFrom("not-a-date"); err == nil {
		t.Error("malformed date accepted")
	}
}
