// Package proforma builds the multi-year cash-flow model for a deal:
// acquisition basis, rent-roll schedule, debt service, and the levered
// and unlevered series the exit search and tax overlay consume.
package proforma

import (
	"fmt"

	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/returns"
)

// BasisBreakdown itemizes total acquisition cost. DevelopmentCosts
// already includes category contingency; hard items carry the hard
// contingency percentage and soft items the soft.
type BasisBreakdown struct {
	PurchasePrice    float64 `json:"purchase_price"`
	HardCosts        float64 `json:"hard_costs"`
	SoftCosts        float64 `json:"soft_costs"`
	DevelopmentCosts float64 `json:"development_costs"`
	ClosingCosts     float64 `json:"closing_costs"`
	TotalBasis       float64 `json:"total_basis"`
	EquityRequired   float64 `json:"equity_required"`
}

// RentRollYear is one year of the leased-income schedule.
type RentRollYear struct {
	Year         int     `json:"year"`
	ContractRent float64 `json:"contract_rent"`
	VacantIncome float64 `json:"vacant_income"`
	VacancyLoss  float64 `json:"vacancy_loss"`
	GrossIncome  float64 `json:"gross_income"`
}

// YearCashFlow is one levered operating year.
type YearCashFlow struct {
	Year        int     `json:"year"`
	NOI         float64 `json:"noi"`
	DebtService float64 `json:"debt_service"`
	CapEx       float64 `json:"capex"`
	NetCashFlow float64 `json:"net_cash_flow"`
}

// Result is the computed pro forma. Levered/Unlevered are keyed to
// integer year offsets 0..HoldYears with the equity (resp. total basis)
// outflow at t0 and exit proceeds folded into the terminal year.
type Result struct {
	Basis             BasisBreakdown `json:"basis"`
	HasLeases         bool           `json:"has_leases"`
	RentRoll          []RentRollYear `json:"rent_roll,omitempty"`
	WALTYears         float64        `json:"walt_years"`
	Years             []YearCashFlow `json:"years"`
	Levered           []float64      `json:"levered"`
	Unlevered         []float64      `json:"unlevered"`
	LeveredIRR        *float64       `json:"levered_irr"`
	UnleveredIRR      *float64       `json:"unlevered_irr"`
	AnnualDebtService float64        `json:"annual_debt_service"`
	ExitValue         float64        `json:"exit_value"`
	NetSaleProceeds   float64        `json:"net_sale_proceeds"`
	AvgCashOnCash     float64        `json:"avg_cash_on_cash"`
	Year1DSCR         *float64       `json:"year1_dscr"`
}

// Compute builds the full pro forma for the assumption set with optional
// overrides applied. The only error surface is structural validation;
// degenerate deals (no debt, no leases) compute normally.
func Compute(a *assumption.Assumptions, ov *assumption.Overrides) (*Result, error) {
	a = ov.Apply(a)
	if err := assumption.Validate(a); err != nil {
		return nil, fmt.Errorf("pro forma input: %w", err)
	}

	basis := computeBasis(a)
	hold := a.Exit.HoldYears

	noi := NOISchedule(a, hold)
	debtService := returns.AnnualDebtService(a.Financing.LoanAmount, a.Financing.InterestRate, a.Financing.AmortYears)
	capex := a.CapExReservePerSF * a.BuildingSF

	res := &Result{
		Basis:             basis,
		HasLeases:         a.HasLeases(),
		AnnualDebtService: debtService,
	}
	if a.HasLeases() {
		res.RentRoll = rentRollSchedule(a, hold)
		res.WALTYears = WeightedAverageLeaseTerm(a)
	}

	levered := make([]float64, hold+1)
	unlevered := make([]float64, hold+1)
	levered[0] = -basis.EquityRequired
	unlevered[0] = -basis.TotalBasis

	var totalOperating float64
	for y := 1; y <= hold; y++ {
		net := noi[y-1] - capex - debtService
		levered[y] = net
		unlevered[y] = noi[y-1] - capex
		totalOperating += net
		res.Years = append(res.Years, YearCashFlow{
			Year:        y,
			NOI:         noi[y-1],
			DebtService: debtService,
			CapEx:       capex,
			NetCashFlow: net,
		})
	}

	// Terminal sale at the end of the hold.
	exitValue := returns.PropertyValue(noi[hold-1], a.Exit.ExitCapRate)
	sellingCosts := exitValue * a.Exit.SellingCostPct
	payoff := returns.RemainingBalance(a.Financing.LoanAmount, a.Financing.InterestRate, a.Financing.AmortYears, hold)
	res.ExitValue = exitValue
	res.NetSaleProceeds = exitValue - sellingCosts - payoff
	levered[hold] += res.NetSaleProceeds
	unlevered[hold] += exitValue - sellingCosts

	res.Levered = levered
	res.Unlevered = unlevered
	res.LeveredIRR = returns.IRR(levered)
	res.UnleveredIRR = returns.IRR(unlevered)

	if hold > 0 {
		res.AvgCashOnCash = returns.CashOnCash(totalOperating/float64(hold), basis.EquityRequired)
	}
	// DSCR is undefined (infinite coverage) without debt service, and
	// the result must stay JSON-encodable, so unlevered deals carry nil.
	if debtService > 0 {
		dscr := returns.DSCR(noi[0]-capex, debtService)
		res.Year1DSCR = &dscr
	}

	return res, nil
}

func computeBasis(a *assumption.Assumptions) BasisBreakdown {
	var hard, soft float64
	for _, item := range a.Development {
		switch item.Category {
		case assumption.CostHard:
			hard += item.Amount * (1.0 + a.HardContingencyPct)
		case assumption.CostSoft:
			soft += item.Amount * (1.0 + a.SoftContingencyPct)
		}
	}
	closing := a.PurchasePrice * a.ClosingCostPct
	total := a.PurchasePrice + hard + soft + closing
	return BasisBreakdown{
		PurchasePrice:    a.PurchasePrice,
		HardCosts:        hard,
		SoftCosts:        soft,
		DevelopmentCosts: hard + soft,
		ClosingCosts:     closing,
		TotalBasis:       total,
		EquityRequired:   total - a.Financing.LoanAmount,
	}
}

// NOISchedule projects NOI for operating years 1..years. With a rent
// roll it runs the lease schedule; otherwise it follows the market-rent
// fallback: EGI = PGI*(1 - vacancy - collection loss), opex as a ratio
// of EGI.
func NOISchedule(a *assumption.Assumptions, years int) []float64 {
	out := make([]float64, years)
	if a.HasLeases() {
		for _, row := range rentRollSchedule(a, years) {
			egi := row.GrossIncome * (1.0 - a.CollectionLoss)
			out[row.Year-1] = egi * (1.0 - a.OpExRatio)
		}
		return out
	}

	marketRent := 0.0
	if a.MarketRentPerSF != nil {
		marketRent = *a.MarketRentPerSF
	}
	pgi := a.BuildingSF * marketRent
	for y := 1; y <= years; y++ {
		egi := pgi * (1.0 - a.VacancyRate - a.CollectionLoss)
		out[y-1] = egi * (1.0 - a.OpExRatio)
		pgi *= 1.0 + a.RentGrowthAnnual
	}
	return out
}
