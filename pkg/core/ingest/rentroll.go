package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gpc_underwriting/pkg/core/assumption"
)

// rent roll column headers recognized, normalized to lower case. Broker
// exports are inconsistent; each canonical column matches on substring.
var rentRollColumns = map[string][]string{
	"tenant":     {"tenant", "lessee", "occupant"},
	"start":      {"start", "commence"},
	"end":        {"end", "expir"},
	"area":       {"sf", "sq ft", "square", "area"},
	"rent":       {"rent", "rate", "$/sf", "psf"},
	"escalation": {"escalation", "increase", "bump"},
}

// ParseRentRoll extracts tenant leases from the first recognizable HTML
// rent roll table. A table qualifies when its header row names at least
// a tenant and an area column; unmatched columns are skipped rather than
// guessed. Rows with an unparseable area are dropped with an error.
func ParseRentRoll(html string) ([]assumption.TenantLease, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("rent roll html: %w", err)
	}

	var leases []assumption.TenantLease
	var parseErr error
	found := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerColumns(table)
		if cols["tenant"] < 0 || cols["area"] < 0 {
			return true // not a rent roll table, keep scanning
		}
		found = true
		leases, parseErr = parseRows(table, cols)
		return false
	})

	if !found {
		return nil, fmt.Errorf("no rent roll table found")
	}
	return leases, parseErr
}

// headerColumns maps canonical column names to cell indexes from the
// table's first row, -1 when absent.
func headerColumns(table *goquery.Selection) map[string]int {
	cols := map[string]int{}
	for name := range rentRollColumns {
		cols[name] = -1
	}
	table.Find("tr").First().Find("td, th").Each(func(i int, cell *goquery.Selection) {
		header := strings.ToLower(strings.TrimSpace(cell.Text()))
		for name, needles := range rentRollColumns {
			if cols[name] >= 0 {
				continue
			}
			for _, needle := range needles {
				if strings.Contains(header, needle) {
					cols[name] = i
					break
				}
			}
		}
	})
	return cols
}

func parseRows(table *goquery.Selection, cols map[string]int) ([]assumption.TenantLease, error) {
	var leases []assumption.TenantLease
	var firstErr error

	table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
		if rowIdx == 0 {
			return // header
		}
		cells := row.Find("td, th")
		if cells.Length() == 0 {
			return
		}

		cellText := func(col int) string {
			if col < 0 || col >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(col).Text())
		}

		tenant := cellText(cols["tenant"])
		if tenant == "" || strings.EqualFold(tenant, "total") {
			return
		}

		area, err := parseNumber(cellText(cols["area"]))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("row %d: area: %w", rowIdx, err)
			}
			return
		}

		lease := assumption.TenantLease{
			Tenant:    tenant,
			StartDate: cellText(cols["start"]),
			EndDate:   cellText(cols["end"]),
			AreaSF:    area,
		}
		if rent, err := parseNumber(cellText(cols["rent"])); err == nil {
			lease.RentPerSFYear = rent
		}
		if esc, err := parsePercent(cellText(cols["escalation"])); err == nil {
			lease.EscalationPct = esc
		}
		leases = append(leases, lease)
	})

	return leases, firstErr
}

// parseNumber strips currency formatting before parsing.
func parseNumber(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(cleaned, 64)
}

// parsePercent accepts "3%", "3.0 %", or a bare decimal like "0.03".
func parsePercent(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	isPct := strings.HasSuffix(trimmed, "%")
	v, err := parseNumber(strings.TrimSuffix(trimmed, "%"))
	if err != nil {
		return 0, err
	}
	if isPct || v >= 1.0 {
		return v / 100.0, nil
	}
	return v, nil
}
