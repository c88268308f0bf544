package ingest

import (
	"math"
	"strings"
	"testing"
)

const strictDoc = `{
	"deal_name": "Airline Hwy Flex",
	"purchase_price": 2400000,
	"building_sf": 40000,
	"market_rent_per_sf": 12.0,
	"vacancy_rate": 0.08,
	"collection_loss": 0.02,
	"opex_ratio": 0.35,
	"financing": {"loan_amount": 1680000, "interest_rate": 0.065, "amort_years": 25},
	"exit": {"hold_years": 5, "exit_cap_rate": 0.07, "selling_cost_pct": 0.02},
	"closing_date": "2026-03-15"
}`

func TestParseAssumptions_StrictJSON(t *testing.T) {
	a, err := ParseAssumptions([]byte(strictDoc))
	if err != nil {
		t.Fatalf("strict parse failed: %v", err)
	}
	if a.DealName != "Airline Hwy Flex" || a.PurchasePrice != 2_400_000 {
		t.Errorf("parsed deal = %q / %f", a.DealName, a.PurchasePrice)
	}
	if a.Exit.HoldYears != 5 {
		t.Errorf("hold years = %d, want 5", a.Exit.HoldYears)
	}
}

func TestParseAssumptions_RepairsSloppyJSON(t *testing.T) {
	// Trailing comma and a markdown fence, the usual copy-paste damage.
	sloppy := "```json\n" + strings.Replace(strictDoc, `"closing_date": "2026-03-15"`, `"closing_date": "2026-03-15",`, 1) + "\n```"
	a, err := ParseAssumptions([]byte(sloppy))
	if err != nil {
		t.Fatalf("repair parse failed: %v", err)
	}
	if a.PurchasePrice != 2_400_000 {
		t.Errorf("purchase price = %f after repair", a.PurchasePrice)
	}
}

func TestParseAssumptions_Hjson(t *testing.T) {
	doc := `{
		# broker notes stay in the file
		deal_name: Airline Hwy Flex
		purchase_price: 2400000
		building_sf: 40000
		market_rent_per_sf: 12.0
		vacancy_rate: 0.08
		collection_loss: 0.02
		opex_ratio: 0.35
		financing: {loan_amount: 1680000, interest_rate: 0.065, amort_years: 25}
		exit: {hold_years: 5, exit_cap_rate: 0.07, selling_cost_pct: 0.02}
		closing_date: 2026-03-15
	}`
	a, err := ParseAssumptions([]byte(doc))
	if err != nil {
		t.Fatalf("hjson parse failed: %v", err)
	}
	if a.Financing.LoanAmount != 1_680_000 {
		t.Errorf("loan amount = %f", a.Financing.LoanAmount)
	}
}

func TestParseAssumptions_RejectsInvalidValues(t *testing.T) {
	bad := strings.Replace(strictDoc, `"hold_years": 5`, `"hold_years": 0`, 1)
	if _, err := ParseAssumptions([]byte(bad)); err == nil {
		t.Fatal("zero hold years accepted")
	}
}

const rentRollHTML = `<html><body>
<h2>Rent Roll - Airline Hwy</h2>
<table>
  <tr><th>Tenant</th><th>Lease Start</th><th>Lease End</th><th>Area (SF)</th><th>Rent $/SF</th><th>Annual Increase</th></tr>
  <tr><td>Acme Logistics</td><td>2026-03-15</td><td>2031-03-15</td><td>25,000</td><td>$11.00</td><td>3%</td></tr>
  <tr><td>Bayou Supply</td><td>2026-09-15</td><td>2029-09-15</td><td>10,000</td><td>$12.50</td><td>2%</td></tr>
  <tr><td>Total</td><td></td><td></td><td>35,000</td><td></td><td></td></tr>
</table>
</body></html>`

func TestParseRentRoll(t *testing.T) {
	leases, err := ParseRentRoll(rentRollHTML)
	if err != nil {
		t.Fatalf("ParseRentRoll failed: %v", err)
	}
	if len(leases) != 2 {
		t.Fatalf("leases = %d, want 2 (total row excluded)", len(leases))
	}

	acme := leases[0]
	if acme.Tenant != "Acme Logistics" || acme.AreaSF != 25_000 {
		t.Errorf("first lease = %+v", acme)
	}
	if acme.StartDate != "2026-03-15" || acme.EndDate != "2031-03-15" {
		t.Errorf("lease dates = %s..%s", acme.StartDate, acme.EndDate)
	}
	if math.Abs(acme.RentPerSFYear-11.0) > 1e-9 {
		t.Errorf("rent = %f, want 11.0", acme.RentPerSFYear)
	}
	if math.Abs(acme.EscalationPct-0.03) > 1e-9 {
		t.Errorf("escalation = %f, want 0.03", acme.EscalationPct)
	}
}

func TestParseRentRoll_NoTableFound(t *testing.T) {
	if _, err := ParseRentRoll("<html><body><p>no tables here</p></body></html>"); err == nil {
		t.Fatal("missing table accepted")
	}
	// A table without tenant/area headers is not a rent roll.
	other := `<table><tr><th>Year</th><th>NOI</th></tr><tr><td>1</td><td>100</td></tr></table>`
	if _, err := ParseRentRoll(other); err == nil {
		t.Fatal("non-rent-roll table accepted")
	}
}

func TestParsePercent(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
	}{
		{"3%", 0.03},
		{"2.5 %", 0.025},
		{"0.03", 0.03},
		{"3", 0.03},
	} {
		got, err := parsePercent(tc.in)
		if err != nil {
			t.Errorf("parsePercent(%q) error: %v", tc.in, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("parsePercent(%q) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
