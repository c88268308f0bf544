// Package assumption defines the immutable deal assumption record the
// underwriting engine computes from, plus its pure validation. Optional
// fields are pointers: an absent value is a valid state ("no data
// available"), never an error. Structural problems (NaN, negative rates)
// surface as a typed ValidationError from Validate; nothing downstream
// should ever see them.
package assumption

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// CostCategory classifies a development budget line item.
type CostCategory string

const (
	CostHard CostCategory = "hard"
	CostSoft CostCategory = "soft"
)

// PropertyType mirrors the acquisition pipeline's asset classes.
type PropertyType string

const (
	PropMobileHomePark  PropertyType = "mobile_home_park"
	PropFlexIndustrial  PropertyType = "flex_industrial"
	PropSmallCommercial PropertyType = "small_commercial"
	PropMultifamily     PropertyType = "multifamily"
	PropRetail          PropertyType = "retail"
	PropOffice          PropertyType = "office"
	PropWarehouse       PropertyType = "warehouse"
	PropMixedUse        PropertyType = "mixed_use"
)

// DateLayout is the wire format for all assumption dates.
const DateLayout = "2006-01-02"

// DevelopmentItem is one development budget line. Contingency is applied
// by category: hard items carry the hard contingency, soft items the soft.
type DevelopmentItem struct {
	Name     string       `json:"name"`
	Amount   float64      `json:"amount"`
	Category CostCategory `json:"category"`
}

// TenantLease is one contracted lease on the rent roll.
type TenantLease struct {
	Tenant        string  `json:"tenant"`
	StartDate     string  `json:"start_date"` // DateLayout
	EndDate       string  `json:"end_date"`   // DateLayout
	AreaSF        float64 `json:"area_sf"`
	RentPerSFYear float64 `json:"rent_per_sf_year"`
	EscalationPct float64 `json:"escalation_pct"` // annual, decimal
}

// Financing describes the senior acquisition loan. A zero loan amount is
// a valid all-cash deal.
type Financing struct {
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"` // decimal
	AmortYears   int     `json:"amort_years"`
}

// RefinanceOption configures one candidate cash-out refinance.
type RefinanceOption struct {
	Year         int     `json:"year"`
	TargetLTV    float64 `json:"target_ltv"`
	InterestRate float64 `json:"interest_rate"`
	AmortYears   int     `json:"amort_years"`
}

// ExitParameters bound the hold-period scenario search.
type ExitParameters struct {
	HoldYears          int               `json:"hold_years"`
	ExitCapRate        float64           `json:"exit_cap_rate"`
	SellingCostPct     float64           `json:"selling_cost_pct"`
	StabilizationYears int               `json:"stabilization_years,omitempty"`
	RefinanceOptions   []RefinanceOption `json:"refinance_options,omitempty"`
}

// TaxProfile is the deal's tax posture. Rates are decimals; zero rates
// are valid (tax overlay then contributes nothing).
type TaxProfile struct {
	PropertyType        PropertyType `json:"property_type"`
	PlacedInServiceYear int          `json:"placed_in_service_year"`
	DealCategory        string       `json:"deal_category,omitempty"`
	RecaptureRate       float64      `json:"recapture_rate"`
	CapitalGainsRate    float64      `json:"capital_gains_rate"`
	OrdinaryRate        float64      `json:"ordinary_rate"`
}

// Assumptions is the full deal assumption set. It is constructed once and
// never mutated; derived computations work on copies. Optional inputs are
// pointers so "not supplied" is distinguishable from zero.
type Assumptions struct {
	DealName string `json:"deal_name,omitempty"`

	// Acquisition
	PurchasePrice      float64           `json:"purchase_price"`
	ClosingCostPct     float64           `json:"closing_cost_pct"`
	Development        []DevelopmentItem `json:"development,omitempty"`
	HardContingencyPct float64           `json:"hard_contingency_pct"`
	SoftContingencyPct float64           `json:"soft_contingency_pct"`

	// Leasing. When Leases is empty the model falls back to market-rent
	// assumptions over the full building area.
	Leases            []TenantLease `json:"leases,omitempty"`
	BuildingSF        float64       `json:"building_sf"`
	MarketRentPerSF   *float64      `json:"market_rent_per_sf,omitempty"` // annual
	VacancyRate       float64       `json:"vacancy_rate"`
	CollectionLoss    float64       `json:"collection_loss"`
	OpExRatio         float64       `json:"opex_ratio"`
	RentGrowthAnnual  float64       `json:"rent_growth_annual"`
	CapExReservePerSF float64       `json:"capex_reserve_per_sf,omitempty"` // annual, per building SF

	// Financing and exit
	Financing Financing      `json:"financing"`
	Exit      ExitParameters `json:"exit"`

	// Tax posture and the closing date anchoring 1031 deadlines.
	Tax         TaxProfile `json:"tax"`
	ClosingDate string     `json:"closing_date"` // DateLayout
}

// ParseClosingDate parses the closing date field.
func (a *Assumptions) ParseClosingDate() (time.Time, error) {
	return time.Parse(DateLayout, a.ClosingDate)
}

// LeasedSF sums the rent roll's rented area.
func (a *Assumptions) LeasedSF() float64 {
	var total float64
	for _, l := range a.Leases {
		total += l.AreaSF
	}
	return total
}

// HasLeases reports whether a contracted rent roll was supplied.
func (a *Assumptions) HasLeases() bool {
	return len(a.Leases) > 0
}

// ValidationError reports structurally invalid numeric input. It names
// every offending field so a caller can fix them in one pass.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid assumptions: %s", strings.Join(e.Fields, ", "))
}

// badNumber flags NaN and infinities. Negative values are legal for cash
// flows but not for the fields checked below.
func badNumber(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Validate checks the assumption set for structural problems. Absent
// optional fields never fail; only explicitly bad values do. Zero debt
// and zero leases are valid degenerate cases.
func Validate(a *Assumptions) error {
	var bad []string

	checkFinite := func(name string, v float64) {
		if badNumber(v) {
			bad = append(bad, name)
		}
	}
	checkRate := func(name string, v float64) {
		if badNumber(v) || v < 0 {
			bad = append(bad, name)
		}
	}

	checkFinite("purchase_price", a.PurchasePrice)
	checkRate("closing_cost_pct", a.ClosingCostPct)
	checkRate("hard_contingency_pct", a.HardContingencyPct)
	checkRate("soft_contingency_pct", a.SoftContingencyPct)
	checkRate("vacancy_rate", a.VacancyRate)
	checkRate("collection_loss", a.CollectionLoss)
	checkRate("opex_ratio", a.OpExRatio)
	checkFinite("rent_growth_annual", a.RentGrowthAnnual)
	checkFinite("building_sf", a.BuildingSF)
	checkRate("capex_reserve_per_sf", a.CapExReservePerSF)

	if a.MarketRentPerSF != nil {
		checkFinite("market_rent_per_sf", *a.MarketRentPerSF)
	}
	for i, item := range a.Development {
		checkFinite(fmt.Sprintf("development[%d].amount", i), item.Amount)
		if item.Category != CostHard && item.Category != CostSoft {
			bad = append(bad, fmt.Sprintf("development[%d].category", i))
		}
	}
	for i, l := range a.Leases {
		checkFinite(fmt.Sprintf("leases[%d].area_sf", i), l.AreaSF)
		checkFinite(fmt.Sprintf("leases[%d].rent_per_sf_year", i), l.RentPerSFYear)
		checkFinite(fmt.Sprintf("leases[%d].escalation_pct", i), l.EscalationPct)
		if _, err := time.Parse(DateLayout, l.StartDate); err != nil {
			bad = append(bad, fmt.Sprintf("leases[%d].start_date", i))
		}
		if _, err := time.Parse(DateLayout, l.EndDate); err != nil {
			bad = append(bad, fmt.Sprintf("leases[%d].end_date", i))
		}
	}

	checkFinite("financing.loan_amount", a.Financing.LoanAmount)
	checkRate("financing.interest_rate", a.Financing.InterestRate)
	if a.Financing.LoanAmount > 0 && a.Financing.AmortYears <= 0 {
		bad = append(bad, "financing.amort_years")
	}

	if a.Exit.HoldYears <= 0 {
		bad = append(bad, "exit.hold_years")
	}
	checkRate("exit.exit_cap_rate", a.Exit.ExitCapRate)
	checkRate("exit.selling_cost_pct", a.Exit.SellingCostPct)
	for i, ro := range a.Exit.RefinanceOptions {
		checkRate(fmt.Sprintf("exit.refinance_options[%d].target_ltv", i), ro.TargetLTV)
		checkRate(fmt.Sprintf("exit.refinance_options[%d].interest_rate", i), ro.InterestRate)
	}

	checkRate("tax.recapture_rate", a.Tax.RecaptureRate)
	checkRate("tax.capital_gains_rate", a.Tax.CapitalGainsRate)
	checkRate("tax.ordinary_rate", a.Tax.OrdinaryRate)

	if a.ClosingDate != "" {
		if _, err := time.Parse(DateLayout, a.ClosingDate); err != nil {
			bad = append(bad, "closing_date")
		}
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}
