// Package exitsearch enumerates exit strategies over the hold horizon
// (sale at each candidate year, cash-out refinance then hold, stabilized
// disposition), computes IRR for each, and ranks them. Enumeration order
// is fixed and the ranking sort is stable, so repeated runs over the
// same assumptions produce byte-identical output.
package exitsearch

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/proforma"
)

// ExitPath identifies the scenario family.
type ExitPath string

const (
	PathSell             ExitPath = "sell"
	PathRefinanceHold    ExitPath = "refinance_hold"
	PathStabilizationDis ExitPath = "stabilization_disposition"
)

// ExitTiming is the IRR-maximizing timing for a scenario. For sell
// scenarios ExitYear equals SellYear and RefinanceYear is nil; for
// refinance scenarios SellYear is the terminal exit year.
type ExitTiming struct {
	SellYear      int  `json:"sell_year"`
	RefinanceYear *int `json:"refinance_year"`
	ExitYear      int  `json:"exit_year"`
}

// Scenario is one modeled exit.
type Scenario struct {
	ID             string     `json:"id"`
	Path           ExitPath   `json:"path"`
	Timing         ExitTiming `json:"irr_maximizing_exit_timing"`
	ExitValue      float64    `json:"exit_value"`
	EquityProceeds float64    `json:"equity_proceeds"`
	IRR            *float64   `json:"irr"`
	AfterTaxIRR    *float64   `json:"after_tax_irr,omitempty"`
	EquityMultiple float64    `json:"equity_multiple"`
	CashFlows      []float64  `json:"cash_flows"`
}

// StrategySummary reports the best timing within one path family.
type StrategySummary struct {
	BestTiming *ExitTiming `json:"best_timing"`
	BestIRR    *float64    `json:"best_irr"`
	ScenarioID string      `json:"scenario_id,omitempty"`
}

// Analysis is the full scenario search output. Scenarios holds canonical
// enumeration order; Ranked is IRR-descending with nil as -Inf and
// enumeration order preserved on ties.
type Analysis struct {
	AnalysisID            string          `json:"analysis_id"`
	Scenarios             []Scenario      `json:"scenarios"`
	Ranked                []Scenario      `json:"ranked_scenarios"`
	SellStrategy          StrategySummary `json:"sell_strategy"`
	RefinanceStrategy     StrategySummary `json:"refinance_strategy"`
	OverallBestScenarioID string          `json:"overall_best_scenario_id"`
	AfterTaxRanking       bool            `json:"after_tax_ranking"`
}

// Options tunes the search.
type Options struct {
	// AfterTax ranks scenarios by after-tax IRR, applying the
	// disposition tax overlay to each scenario's exit year.
	AfterTax bool
}

// Default cash-out refinance synthesized when the assumptions configure
// none, so every multi-year hold still explores a refinance path.
const (
	defaultRefinanceLTV  = 0.70
	defaultRefinanceYear = 3
)

// defaultStabilizationYears applies when the assumptions leave the
// stabilization period unset.
const defaultStabilizationYears = 2

// ModelExitScenarios enumerates and ranks every exit scenario for the
// assumption set. Zero-debt and zero-tenant inputs are valid degenerate
// cases, not errors; only structural validation can fail.
func ModelExitScenarios(a *assumption.Assumptions, opts Options) (*Analysis, error) {
	pf, err := proforma.Compute(a, nil)
	if err != nil {
		return nil, fmt.Errorf("exit scenario input: %w", err)
	}

	hold := a.Exit.HoldYears
	noi := proforma.NOISchedule(a, hold)
	basis := dealBasis{total: pf.Basis.TotalBasis, equity: pf.Basis.EquityRequired}
	capex := a.CapExReservePerSF * a.BuildingSF
	debtService := pf.AnnualDebtService

	an := &Analysis{
		AnalysisID:      uuid.New().String(),
		AfterTaxRanking: opts.AfterTax,
	}

	// Sell at each candidate year, ascending.
	for year := 1; year <= hold; year++ {
		an.Scenarios = append(an.Scenarios, sellScenario(a, noi, basis, capex, debtService, year))
	}

	// Cash-out refinance then hold to the terminal year.
	for _, ro := range refinanceOptions(a) {
		an.Scenarios = append(an.Scenarios, refinanceScenario(a, noi, basis, capex, debtService, ro))
	}

	// Stabilized disposition, exactly one.
	an.Scenarios = append(an.Scenarios, stabilizationScenario(a, noi, basis, capex, debtService))

	if opts.AfterTax {
		for i := range an.Scenarios {
			applyTaxOverlay(a, basis, &an.Scenarios[i])
		}
	}

	rank(an)
	return an, nil
}

type dealBasis struct {
	total  float64
	equity float64
}

// refinanceOptions returns the configured refinance candidates in year
// order, or a single synthesized default when none are configured. A
// configured set whose every option falls outside [1, holdYears) yields
// no refinance scenarios; the caller asked for specific timings and a
// substitute would misrepresent the deal.
func refinanceOptions(a *assumption.Assumptions) []assumption.RefinanceOption {
	if len(a.Exit.RefinanceOptions) > 0 {
		opts := make([]assumption.RefinanceOption, 0, len(a.Exit.RefinanceOptions))
		for _, ro := range a.Exit.RefinanceOptions {
			if ro.Year >= 1 && ro.Year < a.Exit.HoldYears {
				opts = append(opts, ro)
			}
		}
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Year < opts[j].Year })
		return opts
	}

	if a.Exit.HoldYears < 2 {
		return nil
	}
	year := defaultRefinanceYear
	if year > a.Exit.HoldYears-1 {
		year = a.Exit.HoldYears - 1
	}
	return []assumption.RefinanceOption{{
		Year:         year,
		TargetLTV:    defaultRefinanceLTV,
		InterestRate: a.Financing.InterestRate,
		AmortYears:   maxInt(a.Financing.AmortYears, 25),
	}}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
