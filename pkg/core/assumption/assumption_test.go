package assumption

import (
	"math"
	"strings"
	"testing"
)

func validDeal() *Assumptions {
	rent := 12.0
	return &Assumptions{
		DealName:       "Airline Hwy Flex",
		PurchasePrice:  2_400_000,
		ClosingCostPct: 0.02,
		Development: []DevelopmentItem{
			{Name: "Shell", Amount: 500_000, Category: CostHard},
			{Name: "Permits", Amount: 100_000, Category: CostSoft},
		},
		HardContingencyPct: 0.10,
		SoftContingencyPct: 0.05,
		BuildingSF:         40_000,
		MarketRentPerSF:    &rent,
		VacancyRate:        0.08,
		CollectionLoss:     0.02,
		OpExRatio:          0.35,
		RentGrowthAnnual:   0.025,
		Financing:          Financing{LoanAmount: 1_680_000, InterestRate: 0.065, AmortYears: 25},
		Exit:               ExitParameters{HoldYears: 5, ExitCapRate: 0.07, SellingCostPct: 0.02},
		Tax: TaxProfile{
			PropertyType:        PropFlexIndustrial,
			PlacedInServiceYear: 2026,
			RecaptureRate:       0.25,
			CapitalGainsRate:    0.20,
			OrdinaryRate:        0.37,
		},
		ClosingDate: "2026-03-15",
	}
}

func TestValidate_AcceptsValidDeal(t *testing.T) {
	if err := Validate(validDeal()); err != nil {
		t.Fatalf("valid deal rejected: %v", err)
	}
}

func TestValidate_DegenerateDealsAreValid(t *testing.T) {
	// All-cash (zero debt) is not an error.
	a := validDeal()
	a.Financing = Financing{}
	if err := Validate(a); err != nil {
		t.Errorf("zero-debt deal rejected: %v", err)
	}

	// Zero tenants with market-rent fallback is not an error.
	a = validDeal()
	a.Leases = nil
	if err := Validate(a); err != nil {
		t.Errorf("zero-tenant deal rejected: %v", err)
	}
}

func TestValidate_RejectsNaN(t *testing.T) {
	a := validDeal()
	a.PurchasePrice = math.NaN()
	err := Validate(a)
	if err == nil {
		t.Fatal("NaN purchase price accepted")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Fields) != 1 || ve.Fields[0] != "purchase_price" {
		t.Errorf("fields = %v, want [purchase_price]", ve.Fields)
	}
}

func TestValidate_RejectsNegativeRate(t *testing.T) {
	a := validDeal()
	a.Financing.InterestRate = -0.05
	err := Validate(a)
	if err == nil {
		t.Fatal("negative interest rate accepted")
	}
	if !strings.Contains(err.Error(), "financing.interest_rate") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestValidate_CollectsAllBadFields(t *testing.T) {
	a := validDeal()
	a.VacancyRate = math.NaN()
	a.Exit.ExitCapRate = -0.01
	a.ClosingDate = "03/15/2026"
	err := Validate(a)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	ve := err.(*ValidationError)
	if len(ve.Fields) != 3 {
		t.Errorf("fields = %v, want 3 entries", ve.Fields)
	}
}

func TestOverrides_ApplyDoesNotMutate(t *testing.T) {
	a := validDeal()
	cap := 0.08
	hold := 10
	ov := &Overrides{ExitCapRate: &cap, HoldYears: &hold}

	patched := ov.Apply(a)
	if patched.Exit.ExitCapRate != 0.08 || patched.Exit.HoldYears != 10 {
		t.Errorf("overrides not applied: %+v", patched.Exit)
	}
	if a.Exit.ExitCapRate != 0.07 || a.Exit.HoldYears != 5 {
		t.Errorf("original mutated: %+v", a.Exit)
	}

	// A nil override set still returns a defensive copy.
	var none *Overrides
	clone := none.Apply(a)
	clone.PurchasePrice = 1
	if a.PurchasePrice == 1 {
		t.Error("nil-override Apply aliased the original")
	}
}
