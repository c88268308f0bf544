package proforma

import (
	"math"
	"time"

	"gpc_underwriting/pkg/core/assumption"
)

const daysPerYear = 365.25

// anchorDate is the date analysis year 1 begins. The closing date when
// supplied, otherwise the earliest lease start so a rent roll without a
// closing date still schedules deterministically.
func anchorDate(a *assumption.Assumptions) time.Time {
	if t, err := a.ParseClosingDate(); err == nil && a.ClosingDate != "" {
		return t
	}
	var earliest time.Time
	for _, l := range a.Leases {
		t, err := time.Parse(assumption.DateLayout, l.StartDate)
		if err != nil {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

// overlapFraction returns the fraction of [winStart, winEnd) covered by
// [start, end).
func overlapFraction(winStart, winEnd, start, end time.Time) float64 {
	lo := winStart
	if start.After(lo) {
		lo = start
	}
	hi := winEnd
	if end.Before(hi) {
		hi = end
	}
	if !hi.After(lo) {
		return 0
	}
	window := winEnd.Sub(winStart).Hours()
	if window == 0 {
		return 0
	}
	return hi.Sub(lo).Hours() / window
}

// anniversariesElapsed counts whole lease anniversaries between the
// lease start and the given date. Escalation compounds once per
// anniversary.
func anniversariesElapsed(start, at time.Time) int {
	if !at.After(start) {
		return 0
	}
	n := at.Year() - start.Year()
	anniversary := start.AddDate(n, 0, 0)
	if anniversary.After(at) {
		n--
	}
	if n < 0 {
		n = 0
	}
	return n
}

// rentRollSchedule builds the contracted income schedule for operating
// years 1..years. Partial-year leases are pro-rated by day overlap;
// escalation compounds on each lease's own anniversary; unleased area
// earns market rent net of vacancy loss.
func rentRollSchedule(a *assumption.Assumptions, years int) []RentRollYear {
	anchor := anchorDate(a)
	marketRent := 0.0
	if a.MarketRentPerSF != nil {
		marketRent = *a.MarketRentPerSF
	}

	out := make([]RentRollYear, 0, years)
	for y := 1; y <= years; y++ {
		winStart := anchor.AddDate(y-1, 0, 0)
		winEnd := anchor.AddDate(y, 0, 0)

		var contract, occupiedSF float64
		for _, l := range a.Leases {
			start, err1 := time.Parse(assumption.DateLayout, l.StartDate)
			end, err2 := time.Parse(assumption.DateLayout, l.EndDate)
			if err1 != nil || err2 != nil {
				continue // Validate rejects these before Compute runs
			}
			frac := overlapFraction(winStart, winEnd, start, end)
			if frac == 0 {
				continue
			}
			rate := l.RentPerSFYear * math.Pow(1.0+l.EscalationPct, float64(anniversariesElapsed(start, winStart)))
			contract += l.AreaSF * rate * frac
			occupiedSF += l.AreaSF * frac
		}

		vacantSF := a.BuildingSF - occupiedSF
		if vacantSF < 0 {
			vacantSF = 0
		}
		potential := vacantSF * marketRent * math.Pow(1.0+a.RentGrowthAnnual, float64(y-1))
		vacancyLoss := potential * a.VacancyRate

		out = append(out, RentRollYear{
			Year:         y,
			ContractRent: contract,
			VacantIncome: potential - vacancyLoss,
			VacancyLoss:  vacancyLoss,
			GrossIncome:  contract + potential - vacancyLoss,
		})
	}
	return out
}

// WeightedAverageLeaseTerm computes WALT in years as of the anchor date:
// sum(remainingTerm_i * area_i) / sum(area_i). Expired leases contribute
// zero term but still count their area in the denominator.
func WeightedAverageLeaseTerm(a *assumption.Assumptions) float64 {
	anchor := anchorDate(a)
	var weighted, area float64
	for _, l := range a.Leases {
		end, err := time.Parse(assumption.DateLayout, l.EndDate)
		if err != nil {
			continue
		}
		term := end.Sub(anchor).Hours() / 24.0 / daysPerYear
		if term < 0 {
			term = 0
		}
		weighted += term * l.AreaSF
		area += l.AreaSF
	}
	if area == 0 {
		return 0
	}
	return weighted / area
}
