package tax

import (
	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/returns"
)

// DispositionEstimate breaks down the tax bill on a sale.
type DispositionEstimate struct {
	ExitYear            int     `json:"exit_year"`
	SalePrice           float64 `json:"sale_price"`
	AccumulatedDep      float64 `json:"accumulated_depreciation"`
	AdjustedBasis       float64 `json:"adjusted_basis"`
	TotalGain           float64 `json:"total_gain"`
	RecaptureGain       float64 `json:"recapture_gain"`
	CapitalGain         float64 `json:"capital_gain"`
	RecaptureTax        float64 `json:"recapture_tax"`
	CapitalGainsTax     float64 `json:"capital_gains_tax"`
	TotalDispositionTax float64 `json:"total_disposition_tax"`
}

// EstimateDispositionTax computes straight-line recapture taxed at the
// recapture rate plus remaining gain taxed at the capital-gains rate,
// for a sale at the end of exitYear. A sale at a loss owes nothing.
func EstimateDispositionTax(costBasis, salePrice float64, profile assumption.TaxProfile, exitYear int) DispositionEstimate {
	life := UsefulLifeYears(profile.PropertyType)
	annual := costBasis / life
	accumulated := annual * float64(exitYear)
	if accumulated > costBasis {
		accumulated = costBasis
	}
	adjusted := costBasis - accumulated

	est := DispositionEstimate{
		ExitYear:       exitYear,
		SalePrice:      salePrice,
		AccumulatedDep: accumulated,
		AdjustedBasis:  adjusted,
	}

	gain := salePrice - adjusted
	if gain <= 0 {
		return est
	}
	est.TotalGain = gain

	recapture := accumulated
	if recapture > gain {
		recapture = gain
	}
	est.RecaptureGain = recapture
	est.CapitalGain = gain - recapture
	est.RecaptureTax = recapture * profile.RecaptureRate
	est.CapitalGainsTax = est.CapitalGain * profile.CapitalGainsRate
	est.TotalDispositionTax = est.RecaptureTax + est.CapitalGainsTax
	return est
}

// AfterTaxIRR re-solves IRR on a copy of the levered series with the
// disposition tax subtracted at the exit period. The series is keyed
// 0..n with the sale folded into flows[exitYear]. Whenever the tax is
// positive the after-tax IRR cannot exceed the pre-tax IRR.
func AfterTaxIRR(flows []float64, dispositionTax float64, exitYear int) *float64 {
	if exitYear < 0 || exitYear >= len(flows) {
		return returns.IRR(flows)
	}
	adjusted := make([]float64, len(flows))
	copy(adjusted, flows)
	adjusted[exitYear] -= dispositionTax
	return returns.IRR(adjusted)
}
