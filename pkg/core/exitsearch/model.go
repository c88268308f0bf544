package exitsearch

import (
	"fmt"
	"math"
	"sort"

	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/returns"
	"gpc_underwriting/pkg/core/tax"
)

// sellScenario models an outright sale at the end of sellYear: operating
// cash flows through the sale year, then exit proceeds net of selling
// costs and the loan payoff.
func sellScenario(a *assumption.Assumptions, noi []float64, basis dealBasis, capex, debtService float64, sellYear int) Scenario {
	flows := make([]float64, sellYear+1)
	flows[0] = -basis.equity
	for y := 1; y <= sellYear; y++ {
		flows[y] = noi[y-1] - capex - debtService
	}

	exitValue := returns.PropertyValue(noi[sellYear-1], a.Exit.ExitCapRate)
	payoff := returns.RemainingBalance(a.Financing.LoanAmount, a.Financing.InterestRate, a.Financing.AmortYears, sellYear)
	proceeds := exitValue - exitValue*a.Exit.SellingCostPct - payoff
	flows[sellYear] += proceeds

	return Scenario{
		ID:   fmt.Sprintf("sell_y%02d", sellYear),
		Path: PathSell,
		Timing: ExitTiming{
			SellYear: sellYear,
			ExitYear: sellYear,
		},
		ExitValue:      exitValue,
		EquityProceeds: proceeds,
		IRR:            returns.IRR(flows),
		EquityMultiple: returns.EquityMultiple(totalDistributions(flows), basis.equity),
		CashFlows:      flows,
	}
}

// refinanceScenario models a cash-out refinance in the option year with
// a hold to the terminal year. The new loan is sized against the
// capitalized value of the refinance-year NOI; proceeds above the old
// loan payoff are distributed in the refinance year, and debt service
// steps to the new note thereafter.
func refinanceScenario(a *assumption.Assumptions, noi []float64, basis dealBasis, capex, debtService float64, ro assumption.RefinanceOption) Scenario {
	hold := a.Exit.HoldYears
	flows := make([]float64, hold+1)
	flows[0] = -basis.equity

	refiValue := returns.PropertyValue(noi[ro.Year-1], a.Exit.ExitCapRate)
	newLoan := refiValue * ro.TargetLTV
	oldPayoff := returns.RemainingBalance(a.Financing.LoanAmount, a.Financing.InterestRate, a.Financing.AmortYears, ro.Year)
	newDebtService := returns.AnnualDebtService(newLoan, ro.InterestRate, ro.AmortYears)

	for y := 1; y <= hold; y++ {
		if y <= ro.Year {
			flows[y] = noi[y-1] - capex - debtService
		} else {
			flows[y] = noi[y-1] - capex - newDebtService
		}
	}
	flows[ro.Year] += newLoan - oldPayoff

	exitValue := returns.PropertyValue(noi[hold-1], a.Exit.ExitCapRate)
	payoff := returns.RemainingBalance(newLoan, ro.InterestRate, ro.AmortYears, hold-ro.Year)
	proceeds := exitValue - exitValue*a.Exit.SellingCostPct - payoff
	flows[hold] += proceeds

	refiYear := ro.Year
	return Scenario{
		ID:   fmt.Sprintf("refi_y%02d_sell_y%02d", ro.Year, hold),
		Path: PathRefinanceHold,
		Timing: ExitTiming{
			SellYear:      hold,
			RefinanceYear: &refiYear,
			ExitYear:      hold,
		},
		ExitValue:      exitValue,
		EquityProceeds: proceeds,
		IRR:            returns.IRR(flows),
		EquityMultiple: returns.EquityMultiple(totalDistributions(flows), basis.equity),
		CashFlows:      flows,
	}
}

// stabilizationScenario models a disposition as soon as operations
// stabilize, rather than at an arbitrary hold year. It is a sale
// scenario pinned to the stabilization year.
func stabilizationScenario(a *assumption.Assumptions, noi []float64, basis dealBasis, capex, debtService float64) Scenario {
	year := a.Exit.StabilizationYears
	if year <= 0 {
		year = defaultStabilizationYears
	}
	if year > a.Exit.HoldYears {
		year = a.Exit.HoldYears
	}

	sc := sellScenario(a, noi, basis, capex, debtService, year)
	sc.ID = fmt.Sprintf("stab_y%02d", year)
	sc.Path = PathStabilizationDis
	return sc
}

func totalDistributions(flows []float64) float64 {
	var total float64
	for _, f := range flows[1:] {
		if f > 0 {
			total += f
		}
	}
	return total
}

// applyTaxOverlay attaches an after-tax IRR to the scenario: the
// disposition tax for a sale of the depreciated basis at the scenario's
// exit value, subtracted from the exit-year cash flow.
func applyTaxOverlay(a *assumption.Assumptions, basis dealBasis, sc *Scenario) {
	est := tax.EstimateDispositionTax(basis.total, sc.ExitValue, a.Tax, sc.Timing.ExitYear)
	sc.AfterTaxIRR = tax.AfterTaxIRR(sc.CashFlows, est.TotalDispositionTax, sc.Timing.ExitYear)
}

// rankingKey treats a missing IRR as -Inf so unsolvable scenarios sink
// to the bottom without disturbing the order of the rest.
func rankingKey(sc Scenario, afterTax bool) float64 {
	irr := sc.IRR
	if afterTax {
		irr = sc.AfterTaxIRR
	}
	if irr == nil {
		return math.Inf(-1)
	}
	return *irr
}

// rank fills Ranked, the per-path strategy summaries, and the overall
// best scenario. The sort is stable over canonical enumeration order so
// equal IRRs resolve the same way on every run.
func rank(an *Analysis) {
	an.Ranked = make([]Scenario, len(an.Scenarios))
	copy(an.Ranked, an.Scenarios)
	sort.SliceStable(an.Ranked, func(i, j int) bool {
		return rankingKey(an.Ranked[i], an.AfterTaxRanking) > rankingKey(an.Ranked[j], an.AfterTaxRanking)
	})
	if len(an.Ranked) > 0 {
		an.OverallBestScenarioID = an.Ranked[0].ID
	}

	an.SellStrategy = summarize(an, PathSell)
	an.RefinanceStrategy = summarize(an, PathRefinanceHold)
}

func summarize(an *Analysis, path ExitPath) StrategySummary {
	var out StrategySummary
	best := math.Inf(-1)
	for i := range an.Scenarios {
		sc := an.Scenarios[i]
		if sc.Path != path {
			continue
		}
		key := rankingKey(sc, an.AfterTaxRanking)
		if out.ScenarioID == "" || key > best {
			best = key
			timing := sc.Timing
			out.BestTiming = &timing
			out.BestIRR = sc.IRR
			if an.AfterTaxRanking {
				out.BestIRR = sc.AfterTaxIRR
			}
			out.ScenarioID = sc.ID
		}
	}
	return out
}
