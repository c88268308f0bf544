// Package report renders the underwriting result into the investment
// memo reviewed at the weekly pipeline meeting. Output is Markdown so
// the same artifact feeds the PDF renderer and the chat surface.
package report

import (
	"fmt"
	"strings"

	"gpc_underwriting/pkg/core/exitsearch"
	"gpc_underwriting/pkg/core/underwrite"
)

// rankedScenariosShown caps the exit table; the full ranking stays in
// the stored result.
const rankedScenariosShown = 5

// RenderMemo builds the full Markdown memo for one underwriting run.
func RenderMemo(res *underwrite.Result, dealName string) string {
	var b strings.Builder

	if dealName == "" {
		dealName = "Unnamed Deal"
	}
	fmt.Fprintf(&b, "# Investment Memo: %s\n\n", dealName)
	fmt.Fprintf(&b, "**Recommendation: %s**: %s\n\n", res.Recommendation, res.RecommendReason)
	fmt.Fprintf(&b, "**Triage: %s**\n\n", res.Triage.Decision)
	fmt.Fprintf(&b, "Assumptions hash: `%s` (%s)\n\n", res.AssumptionsHash, res.RerunPolicy.RerunReason)

	writeBasis(&b, res)
	writeReturns(&b, res)
	writeExits(&b, res.Exits)
	writeTriage(&b, res)
	writeTax(&b, res)

	return b.String()
}

func writeBasis(b *strings.Builder, res *underwrite.Result) {
	basis := res.ProForma.Basis
	b.WriteString("## Acquisition Basis\n\n")
	b.WriteString("| Item | Amount |\n|---|---:|\n")
	fmt.Fprintf(b, "| Purchase price | %s |\n", money(basis.PurchasePrice))
	fmt.Fprintf(b, "| Development (with contingency) | %s |\n", money(basis.DevelopmentCosts))
	fmt.Fprintf(b, "| Closing costs | %s |\n", money(basis.ClosingCosts))
	fmt.Fprintf(b, "| **Total basis** | **%s** |\n", money(basis.TotalBasis))
	fmt.Fprintf(b, "| Equity required | %s |\n\n", money(basis.EquityRequired))
}

func writeReturns(b *strings.Builder, res *underwrite.Result) {
	pf := res.ProForma
	b.WriteString("## Returns\n\n")
	fmt.Fprintf(b, "- Levered IRR: %s\n", irrString(pf.LeveredIRR))
	fmt.Fprintf(b, "- Unlevered IRR: %s\n", irrString(pf.UnleveredIRR))
	fmt.Fprintf(b, "- Equity multiple: %.2fx\n", res.EquityMultiple)
	fmt.Fprintf(b, "- Average cash-on-cash: %.1f%%\n", pf.AvgCashOnCash*100)
	fmt.Fprintf(b, "- Year-1 DSCR: %s\n", dscrString(pf.Year1DSCR))
	fmt.Fprintf(b, "- Exit value (terminal): %s\n\n", money(pf.ExitValue))

	ds := res.DebtSizing
	fmt.Fprintf(b, "Debt sizing (%s): max loan %s at %.1f%% LTV, binding constraint of LTV/DSCR/debt-yield legs %s / %s / %s.\n\n",
		ds.LoanType, money(ds.RecommendedLoanAmount), ds.RecommendedLTV*100,
		money(ds.MaxByLTV), money(ds.MaxByDSCR), money(ds.MaxByDebtYield))
}

func writeExits(b *strings.Builder, exits *exitsearch.Analysis) {
	b.WriteString("## Exit Scenarios\n\n")
	fmt.Fprintf(b, "Best scenario: `%s`\n\n", exits.OverallBestScenarioID)
	b.WriteString("| Rank | Scenario | Path | Exit Year | IRR | Equity Multiple |\n|---:|---|---|---:|---:|---:|\n")
	for i, sc := range exits.Ranked {
		if i >= rankedScenariosShown {
			break
		}
		fmt.Fprintf(b, "| %d | `%s` | %s | %d | %s | %.2fx |\n",
			i+1, sc.ID, sc.Path, sc.Timing.ExitYear, irrString(sc.IRR), sc.EquityMultiple)
	}
	b.WriteString("\n")
}

func writeTriage(b *strings.Builder, res *underwrite.Result) {
	tri := res.Triage
	b.WriteString("## Triage\n\n")
	if len(tri.Disqualifiers) > 0 {
		b.WriteString("Disqualifiers:\n\n")
		for _, dq := range tri.Disqualifiers {
			fmt.Fprintf(b, "- **%s**: %s\n", dq.Code, dq.Reason)
		}
		b.WriteString("\n")
	}
	if tri.Composite != nil {
		fmt.Fprintf(b, "Composite risk: %.1f / 10\n\n", *tri.Composite)
	}
	if len(tri.NextActions) > 0 {
		b.WriteString("Next actions:\n\n")
		for _, na := range tri.NextActions {
			fmt.Fprintf(b, "- %s (step %d, due in %d days): %s\n", na.Title, na.PipelineStep, na.DueInDays, na.Description)
		}
		b.WriteString("\n")
	}
}

func writeTax(b *strings.Builder, res *underwrite.Result) {
	b.WriteString("## Tax Overlay\n\n")
	if len(res.Depreciation) > 0 {
		fmt.Fprintf(b, "- Year-1 depreciation: %s\n", money(res.Depreciation[0].AnnualDeduction))
	}
	fmt.Fprintf(b, "- Cost segregation first-year delta: %s (NPV benefit %s)\n",
		money(res.CostSegregation.FirstYearDelta), money(res.CostSegregation.NPVBenefit))
	if res.Deadlines != nil {
		fmt.Fprintf(b, "- 1031 identification deadline: %s\n", res.Deadlines.IdentificationDeadline)
		fmt.Fprintf(b, "- 1031 closing deadline: %s\n", res.Deadlines.ClosingDeadline)
	}
	b.WriteString("\n")
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}

func irrString(irr *float64) string {
	if irr == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *irr*100)
}

func dscrString(dscr *float64) string {
	if dscr == nil {
		return "unlevered"
	}
	return fmt.Sprintf("%.2f", *dscr)
}
