package report

import (
	"strings"
	"testing"

	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/underwrite"
)

func memoFixture(t *testing.T) *underwrite.Result {
	t.Helper()
	rent := 12.0
	a := &assumption.Assumptions{
		DealName:         "Airline Hwy Flex",
		PurchasePrice:    2_400_000,
		ClosingCostPct:   0.02,
		BuildingSF:       40_000,
		MarketRentPerSF:  &rent,
		VacancyRate:      0.08,
		CollectionLoss:   0.02,
		OpExRatio:        0.35,
		RentGrowthAnnual: 0.025,
		Financing:        assumption.Financing{LoanAmount: 1_680_000, InterestRate: 0.065, AmortYears: 25},
		Exit:             assumption.ExitParameters{HoldYears: 5, ExitCapRate: 0.07, SellingCostPct: 0.02},
		Tax: assumption.TaxProfile{
			PropertyType:     assumption.PropFlexIndustrial,
			RecaptureRate:    0.25,
			CapitalGainsRate: 0.20,
			OrdinaryRate:     0.37,
		},
		ClosingDate: "2026-03-15",
	}
	res, err := underwrite.Run(underwrite.Request{Assumptions: a}, underwrite.DefaultPlaybook())
	if err != nil {
		t.Fatalf("underwrite fixture failed: %v", err)
	}
	return res
}

func TestRenderMemo(t *testing.T) {
	res := memoFixture(t)
	memo := RenderMemo(res, "Airline Hwy Flex")

	for _, want := range []string{
		"# Investment Memo: Airline Hwy Flex",
		"## Acquisition Basis",
		"## Returns",
		"## Exit Scenarios",
		"## Triage",
		"## Tax Overlay",
		res.AssumptionsHash,
		res.Exits.OverallBestScenarioID,
		"2026-04-29",
	} {
		if !strings.Contains(memo, want) {
			t.Errorf("memo missing %q", want)
		}
	}

	if !ValidateMarkdown(memo) {
		t.Error("memo failed markdown validation")
	}
}

func TestRenderMemo_UnnamedDeal(t *testing.T) {
	memo := RenderMemo(memoFixture(t), "")
	if !strings.Contains(memo, "# Investment Memo: Unnamed Deal") {
		t.Error("empty deal name not defaulted")
	}
}

func TestCleanMarkdown(t *testing.T) {
	fenced := "```markdown\n# Memo\n\nbody\n```"
	if got := CleanMarkdown(fenced); got != "# Memo\n\nbody" {
		t.Errorf("CleanMarkdown = %q", got)
	}

	bare := "# Memo\n\nbody"
	if got := CleanMarkdown(bare); got != bare {
		t.Errorf("unfenced input changed: %q", got)
	}
}

func TestMoneyFormatting(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{2_400_000, "$2,400,000"},
		{655_000, "$655,000"},
		{-48_000, "-$48,000"},
		{950, "$950"},
	} {
		if got := money(tc.in); got != tc.want {
			t.Errorf("money(%f) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
