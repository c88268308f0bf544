package assumption

// Overrides is a sparse patch over an assumption set. Envelope
// construction and what-if API calls use it to perturb a deal without
// touching the original record.
type Overrides struct {
	PurchasePrice    *float64 `json:"purchase_price,omitempty"`
	ExitCapRate      *float64 `json:"exit_cap_rate,omitempty"`
	RentGrowthAnnual *float64 `json:"rent_growth_annual,omitempty"`
	VacancyRate      *float64 `json:"vacancy_rate,omitempty"`
	OpExRatio        *float64 `json:"opex_ratio,omitempty"`
	MarketRentPerSF  *float64 `json:"market_rent_per_sf,omitempty"`
	HoldYears        *int     `json:"hold_years,omitempty"`
	LoanAmount       *float64 `json:"loan_amount,omitempty"`
	InterestRate     *float64 `json:"interest_rate,omitempty"`
}

// Apply returns a copy of the assumptions with the overrides applied.
// The receiver is never mutated. Slices are shared: overrides cannot
// touch line items or the rent roll, only scalar assumptions.
func (o *Overrides) Apply(a *Assumptions) *Assumptions {
	out := *a
	if o == nil {
		return &out
	}
	if o.PurchasePrice != nil {
		out.PurchasePrice = *o.PurchasePrice
	}
	if o.ExitCapRate != nil {
		out.Exit.ExitCapRate = *o.ExitCapRate
	}
	if o.RentGrowthAnnual != nil {
		out.RentGrowthAnnual = *o.RentGrowthAnnual
	}
	if o.VacancyRate != nil {
		out.VacancyRate = *o.VacancyRate
	}
	if o.OpExRatio != nil {
		out.OpExRatio = *o.OpExRatio
	}
	if o.MarketRentPerSF != nil {
		v := *o.MarketRentPerSF
		out.MarketRentPerSF = &v
	}
	if o.HoldYears != nil {
		out.Exit.HoldYears = *o.HoldYears
	}
	if o.LoanAmount != nil {
		out.Financing.LoanAmount = *o.LoanAmount
	}
	if o.InterestRate != nil {
		out.Financing.InterestRate = *o.InterestRate
	}
	return &out
}
