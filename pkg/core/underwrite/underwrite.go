// Package underwrite is the engine facade: one call runs the pro forma,
// the exit scenario search, the tax overlay, triage, and the envelope
// hasher, and folds the results into a single underwriting decision
// object for the report, persistence, and tool layers.
package underwrite

import (
	"fmt"
	"math"

	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/envelope"
	"gpc_underwriting/pkg/core/exitsearch"
	"gpc_underwriting/pkg/core/proforma"
	"gpc_underwriting/pkg/core/returns"
	"gpc_underwriting/pkg/core/tax"
	"gpc_underwriting/pkg/core/triage"
)

// Playbook carries the tunable underwriting policy, loaded from the
// playbook config file in the serving layers.
type Playbook struct {
	HardFilters     triage.FinancialThresholds `json:"hard_filters" yaml:"hard_filters"`
	AfterTaxRanking bool                       `json:"after_tax_ranking" yaml:"after_tax_ranking"`
	DiscountRate    float64                    `json:"discount_rate" yaml:"discount_rate"`
}

// DefaultPlaybook returns the standing policy used when no playbook
// file is configured.
func DefaultPlaybook() Playbook {
	return Playbook{
		HardFilters:  triage.DefaultThresholds(),
		DiscountRate: 0.08,
	}
}

// Request is one underwriting run. Site is optional; without it triage
// runs on the financial metrics alone. PreviousHash, when supplied from
// the store, drives the rerun policy.
type Request struct {
	Assumptions  *assumption.Assumptions `json:"assumptions"`
	Site         *triage.SiteInputs      `json:"site,omitempty"`
	RiskScores   *triage.RiskScores      `json:"risk_scores,omitempty"`
	PreviousHash string                  `json:"previous_hash,omitempty"`
}

// Result is the complete underwriting output.
type Result struct {
	AssumptionsHash string                 `json:"assumptions_hash"`
	ProForma        *proforma.Result       `json:"pro_forma"`
	Exits           *exitsearch.Analysis   `json:"exits"`
	Triage          triage.Result          `json:"triage"`
	Envelopes       *envelope.Set          `json:"envelopes"`
	DebtSizing      DebtSizing             `json:"debt_sizing"`
	Depreciation    []tax.DepreciationYear `json:"depreciation"`
	CostSegregation tax.CostSegResult      `json:"cost_segregation"`
	Deadlines       *tax.ExchangeDeadlines `json:"exchange_deadlines,omitempty"`
	EquityMultiple  float64                `json:"equity_multiple"`
	Recommendation  Recommendation         `json:"recommendation"`
	RecommendReason string                 `json:"recommendation_reason"`
	RerunPolicy     envelope.RerunPolicy   `json:"rerun_policy"`
}

// Run executes the full underwriting pipeline. The only error surface
// is structural validation and hashing; business-level negatives (KILL
// triage, PASS recommendation, null IRR) are answers, not errors.
func Run(req Request, pb Playbook) (*Result, error) {
	if req.Assumptions == nil {
		return nil, fmt.Errorf("underwrite: missing assumptions")
	}
	a := req.Assumptions

	pf, err := proforma.Compute(a, nil)
	if err != nil {
		return nil, err
	}
	exits, err := exitsearch.ModelExitScenarios(a, exitsearch.Options{AfterTax: pb.AfterTaxRanking})
	if err != nil {
		return nil, err
	}

	tri := runTriage(req, pb, pf)
	env, err := envelope.BuildEnvelopes(a, &tri)
	if err != nil {
		return nil, err
	}

	res := &Result{
		AssumptionsHash: env.Base.AssumptionsHash,
		ProForma:        pf,
		Exits:           exits,
		Triage:          tri,
		Envelopes:       env,
		RerunPolicy:     envelope.RerunPolicyFor(env.Base.AssumptionsHash, req.PreviousHash),
	}

	noi1 := 0.0
	if len(pf.Years) > 0 {
		noi1 = pf.Years[0].NOI
	}
	value := returns.PropertyValue(noi1, a.Exit.ExitCapRate)
	if value == 0 {
		value = a.PurchasePrice
	}
	res.DebtSizing = SizeDebt(noi1, value, LoanPermanent)

	placedInService := a.Tax.PlacedInServiceYear
	if placedInService == 0 {
		if closed, err := a.ParseClosingDate(); err == nil {
			placedInService = closed.Year()
		}
	}
	res.Depreciation = tax.DepreciationSchedule(pf.Basis.TotalBasis, a.Tax.PropertyType, placedInService)
	res.CostSegregation = tax.CostSegregationEstimate(pf.Basis.TotalBasis, a.Tax.PropertyType, a.Tax.OrdinaryRate, pb.DiscountRate)

	if deadlines, err := tax.ExchangeDeadlinesFrom(a.ClosingDate); err == nil {
		res.Deadlines = deadlines
	}

	res.EquityMultiple = leveredEquityMultiple(pf)
	// An unlevered deal has no coverage constraint to fail.
	dscr := math.Inf(1)
	if pf.Year1DSCR != nil {
		dscr = *pf.Year1DSCR
	}
	res.Recommendation, res.RecommendReason = Recommend(pf.LeveredIRR, res.EquityMultiple, dscr)
	return res, nil
}

// runTriage scores the deal. Financial metrics always come from the pro
// forma; site facts and risk scores come from the request when present.
func runTriage(req Request, pb Playbook, pf *proforma.Result) triage.Result {
	in := triage.Input{Thresholds: pb.HardFilters}
	if req.Site != nil {
		in.Site = *req.Site
	}
	if req.RiskScores != nil {
		in.Scores = *req.RiskScores
	}

	a := req.Assumptions
	if len(pf.Years) > 0 && a.PurchasePrice > 0 {
		capRate := returns.CapRate(pf.Years[0].NOI, a.PurchasePrice)
		in.Financial.CapRate = &capRate

		yieldOnCost := returns.CapRate(pf.Years[0].NOI, pf.Basis.TotalBasis)
		spread := yieldOnCost - returns.LoanConstant(a.Financing.InterestRate, a.Financing.AmortYears)
		if a.Financing.LoanAmount > 0 {
			in.Financial.YieldSpread = &spread
			in.Financial.DSCR = pf.Year1DSCR
		}
	}

	return triage.Score(in)
}

func leveredEquityMultiple(pf *proforma.Result) float64 {
	if len(pf.Levered) == 0 {
		return 0
	}
	var distributions float64
	for _, f := range pf.Levered[1:] {
		if f > 0 {
			distributions += f
		}
	}
	return returns.EquityMultiple(distributions, -pf.Levered[0])
}
