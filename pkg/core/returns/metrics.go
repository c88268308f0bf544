// Package returns provides the pure return-metric primitives used across
// the underwriting engine: NPV/IRR, coverage and leverage ratios, and
// amortization math. Every function is stateless and total over its
// documented domain; degenerate denominators resolve to the documented
// sentinel instead of NaN.
package returns

import "math"

// DSCR computes the debt service coverage ratio (NOI / annual debt service).
// A zero debt service is a valid unlevered case and returns +Inf.
func DSCR(noi, debtService float64) float64 {
	if debtService == 0 {
		return math.Inf(1)
	}
	return noi / debtService
}

// CapRate computes NOI / value. Returns 0 when value is zero.
func CapRate(noi, value float64) float64 {
	if value == 0 {
		return 0
	}
	return noi / value
}

// DebtYield computes NOI / loan amount. Returns 0 when the loan is zero.
func DebtYield(noi, loanAmount float64) float64 {
	if loanAmount == 0 {
		return 0
	}
	return noi / loanAmount
}

// LTV computes loan / value. Returns 0 when value is zero.
func LTV(loanAmount, value float64) float64 {
	if value == 0 {
		return 0
	}
	return loanAmount / value
}

// CashOnCash computes annual cash flow / equity invested.
// Returns 0 when equity is zero.
func CashOnCash(annualCashFlow, equityInvested float64) float64 {
	if equityInvested == 0 {
		return 0
	}
	return annualCashFlow / equityInvested
}

// EquityMultiple computes total distributions / equity invested.
// Returns 0 when equity is zero.
func EquityMultiple(totalDistributions, equityInvested float64) float64 {
	if equityInvested == 0 {
		return 0
	}
	return totalDistributions / equityInvested
}

// PropertyValue capitalizes NOI at the given cap rate.
// Returns 0 when the cap rate is zero.
func PropertyValue(noi, capRate float64) float64 {
	if capRate == 0 {
		return 0
	}
	return noi / capRate
}

// MonthlyPayment computes the standard amortizing mortgage payment
// P*r(1+r)^n / ((1+r)^n - 1) with monthly rate r and n = years*12.
// A zero rate degenerates to straight principal / n.
func MonthlyPayment(principal, annualRate float64, years int) float64 {
	n := float64(years * 12)
	if n == 0 {
		return 0
	}
	if annualRate == 0 {
		return principal / n
	}
	r := annualRate / 12.0
	factor := math.Pow(1.0+r, n)
	return principal * (r * factor) / (factor - 1.0)
}

// AnnualDebtService is MonthlyPayment annualized.
func AnnualDebtService(principal, annualRate float64, years int) float64 {
	return MonthlyPayment(principal, annualRate, years) * 12.0
}

// LoanConstant computes annual debt service per dollar of principal.
func LoanConstant(annualRate float64, amortYears int) float64 {
	if amortYears <= 0 {
		return 0
	}
	if annualRate <= 0 {
		return 1.0 / float64(amortYears)
	}
	return AnnualDebtService(1.0, annualRate, amortYears)
}

// RemainingBalance computes the amortized loan balance after a number of
// whole years of payments. The exit search uses this for payoff at sale
// and for sizing cash-out refinance proceeds.
func RemainingBalance(principal, annualRate float64, amortYears, afterYears int) float64 {
	if afterYears <= 0 {
		return principal
	}
	if afterYears >= amortYears {
		return 0
	}
	if annualRate == 0 {
		// Linear paydown under a zero-rate note.
		return principal * (1.0 - float64(afterYears)/float64(amortYears))
	}
	r := annualRate / 12.0
	n := float64(amortYears * 12)
	p := float64(afterYears * 12)
	// B_p = P * ((1+r)^n - (1+r)^p) / ((1+r)^n - 1)
	fn := math.Pow(1.0+r, n)
	fp := math.Pow(1.0+r, p)
	return principal * (fn - fp) / (fn - 1.0)
}
