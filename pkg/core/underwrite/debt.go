package underwrite

import "math"

// LoanType selects the constraint row used to size debt.
type LoanType string

const (
	LoanPermanent    LoanType = "permanent"
	LoanConstruction LoanType = "construction"
	LoanBridge       LoanType = "bridge"
)

// DebtConstraints are the sizing floors and ceilings for one loan type.
type DebtConstraints struct {
	MaxLTV       float64 `json:"max_ltv"`
	MinDSCR      float64 `json:"min_dscr"`
	MinDebtYield float64 `json:"min_debt_yield"`
}

var debtConstraints = map[LoanType]DebtConstraints{
	LoanPermanent:    {MaxLTV: 0.75, MinDSCR: 1.25, MinDebtYield: 0.08},
	LoanConstruction: {MaxLTV: 0.65, MinDSCR: 1.20, MinDebtYield: 0.10},
	LoanBridge:       {MaxLTV: 0.70, MinDSCR: 1.15, MinDebtYield: 0.09},
}

// Standing rate assumptions for the DSCR sizing leg.
const (
	sizingRate       = 0.06
	sizingAmortYears = 25
)

// DebtSizing reports the maximum loan under each constraint and the
// binding (most restrictive) result.
type DebtSizing struct {
	LoanType              LoanType        `json:"loan_type"`
	NOI                   float64         `json:"noi"`
	PropertyValue         float64         `json:"property_value"`
	Constraints           DebtConstraints `json:"constraints"`
	MaxByLTV              float64         `json:"max_by_ltv"`
	MaxByDSCR             float64         `json:"max_by_dscr"`
	MaxByDebtYield        float64         `json:"max_by_debt_yield"`
	RecommendedLoanAmount float64         `json:"recommended_loan_amount"`
	RecommendedLTV        float64         `json:"recommended_ltv"`
}

// SizeDebt sizes a loan against the LTV, DSCR, and debt-yield
// constraints for the loan type; the most restrictive wins. Unknown
// loan types fall back to permanent constraints.
func SizeDebt(noi, propertyValue float64, loanType LoanType) DebtSizing {
	constraint, ok := debtConstraints[loanType]
	if !ok {
		loanType = LoanPermanent
		constraint = debtConstraints[LoanPermanent]
	}

	sizing := DebtSizing{
		LoanType:      loanType,
		NOI:           noi,
		PropertyValue: propertyValue,
		Constraints:   constraint,
	}

	sizing.MaxByLTV = propertyValue * constraint.MaxLTV
	sizing.MaxByDSCR = principalFromPayment(noi/constraint.MinDSCR, sizingRate, sizingAmortYears)
	sizing.MaxByDebtYield = noi / constraint.MinDebtYield

	sizing.RecommendedLoanAmount = math.Min(sizing.MaxByLTV, math.Min(sizing.MaxByDSCR, sizing.MaxByDebtYield))
	if sizing.RecommendedLoanAmount < 0 {
		sizing.RecommendedLoanAmount = 0
	}
	if propertyValue > 0 {
		sizing.RecommendedLTV = sizing.RecommendedLoanAmount / propertyValue
	}
	return sizing
}

// principalFromPayment inverts the amortization formula: the principal
// supportable by a given annual debt service.
func principalFromPayment(annualPayment, annualRate float64, amortYears int) float64 {
	monthly := annualPayment / 12.0
	n := float64(amortYears * 12)
	if annualRate == 0 {
		return monthly * n
	}
	r := annualRate / 12.0
	factor := math.Pow(1.0+r, n)
	return monthly * (factor - 1.0) / (r * factor)
}

// Recommendation is the headline underwriting verdict.
type Recommendation string

const (
	RecommendProceed     Recommendation = "PROCEED"
	RecommendConditional Recommendation = "CONDITIONAL"
	RecommendPass        Recommendation = "PASS"
)

// Recommend grades levered returns against the standing investment
// criteria. A missing IRR (no sign change in the cash flows) can never
// support PROCEED.
func Recommend(irr *float64, equityMultiple, dscr float64) (Recommendation, string) {
	r := 0.0
	if irr != nil {
		r = *irr
	}
	switch {
	case irr != nil && r >= 0.20 && equityMultiple >= 2.0 && dscr >= 1.25:
		return RecommendProceed, "returns exceed targets with adequate debt coverage"
	case irr != nil && r >= 0.15 && equityMultiple >= 1.8 && dscr >= 1.20:
		return RecommendConditional, "returns meet minimum thresholds; weigh risk factors"
	default:
		return RecommendPass, "returns below investment criteria"
	}
}
