// Package triage gates deals before underwriting effort is spent on
// them: hard disqualifiers force a KILL, otherwise a weighted composite
// of site risk scores decides between ADVANCE and HOLD. Absence of a
// field never disqualifies; only an explicitly present bad value does.
package triage

import "fmt"

// Decision is the triage gate outcome.
type Decision string

const (
	DecisionKill    Decision = "KILL"
	DecisionHold    Decision = "HOLD"
	DecisionAdvance Decision = "ADVANCE"
)

// SiteInputs carries the site facts the hard filters inspect. Every
// field is optional; nil means the fact has not been gathered yet.
type SiteInputs struct {
	FloodZone          *string `json:"flood_zone,omitempty"`
	Contaminated       *bool   `json:"contaminated,omitempty"`
	UtilitiesAvailable *bool   `json:"utilities_available,omitempty"`
	RoadAccess         *bool   `json:"road_access,omitempty"`
	Zoning             *string `json:"zoning,omitempty"`
	ProposedUse        *string `json:"proposed_use,omitempty"`
}

// sfhaZones is the FEMA Special Flood Hazard Area designation set.
var sfhaZones = map[string]bool{
	"A": true, "AE": true, "AH": true, "AO": true,
	"AR": true, "A99": true, "V": true, "VE": true,
}

// residentialZones and industrialUses define the zoning-vs-use
// incompatibility cross: an industrial-style proposed use on a
// residentially zoned parcel disqualifies.
var residentialZones = map[string]bool{
	"R": true, "R-1": true, "R-2": true, "R-3": true,
	"RS": true, "RM": true, "residential": true,
}

var industrialUses = map[string]bool{
	"industrial": true, "warehouse": true, "flex_industrial": true,
	"manufacturing": true, "distribution": true, "outdoor_storage": true,
}

// Disqualifier is one hard-filter failure.
type Disqualifier struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// HardFilterCheck evaluates the site disqualifiers: SFHA flood zone,
// explicit contamination, explicitly absent utilities or road access,
// and a residential-zoning/industrial-use conflict. Nil fields are
// skipped, never failed.
func HardFilterCheck(site SiteInputs) []Disqualifier {
	var out []Disqualifier

	if site.FloodZone != nil && sfhaZones[*site.FloodZone] {
		out = append(out, Disqualifier{
			Code:   "flood_zone",
			Reason: fmt.Sprintf("parcel is in FEMA special flood hazard area zone %s", *site.FloodZone),
		})
	}
	if site.Contaminated != nil && *site.Contaminated {
		out = append(out, Disqualifier{
			Code:   "contamination",
			Reason: "known environmental contamination on parcel",
		})
	}
	if site.UtilitiesAvailable != nil && !*site.UtilitiesAvailable {
		out = append(out, Disqualifier{
			Code:   "utilities",
			Reason: "utilities explicitly unavailable at parcel",
		})
	}
	if site.RoadAccess != nil && !*site.RoadAccess {
		out = append(out, Disqualifier{
			Code:   "road_access",
			Reason: "no legal road access to parcel",
		})
	}
	if site.Zoning != nil && site.ProposedUse != nil &&
		residentialZones[*site.Zoning] && industrialUses[*site.ProposedUse] {
		out = append(out, Disqualifier{
			Code: "zoning_use_conflict",
			Reason: fmt.Sprintf("proposed use %q incompatible with residential zoning %q",
				*site.ProposedUse, *site.Zoning),
		})
	}

	return out
}

// FinancialThresholds are the screening floors. A metric below its floor
// disqualifies; a missing metric never does.
type FinancialThresholds struct {
	MinDSCR        float64 `json:"min_dscr" yaml:"min_dscr"`
	MinCapRate     float64 `json:"min_cap_rate" yaml:"min_cap_rate"`
	MinYieldSpread float64 `json:"min_yield_spread" yaml:"min_yield_spread"`
}

// DefaultThresholds returns the playbook defaults.
func DefaultThresholds() FinancialThresholds {
	return FinancialThresholds{
		MinDSCR:        1.25,
		MinCapRate:     0.07,
		MinYieldSpread: 0.015,
	}
}

// FinancialMetrics are the screening metrics, each optional.
type FinancialMetrics struct {
	DSCR        *float64 `json:"dscr,omitempty"`
	CapRate     *float64 `json:"cap_rate,omitempty"`
	YieldSpread *float64 `json:"yield_spread,omitempty"`
}

// FinancialHardFilterCheck disqualifies only when a metric is present
// and below its floor.
func FinancialHardFilterCheck(m FinancialMetrics, th FinancialThresholds) []Disqualifier {
	var out []Disqualifier
	if m.DSCR != nil && *m.DSCR < th.MinDSCR {
		out = append(out, Disqualifier{
			Code:   "dscr",
			Reason: fmt.Sprintf("DSCR %.2f below minimum %.2f", *m.DSCR, th.MinDSCR),
		})
	}
	if m.CapRate != nil && *m.CapRate < th.MinCapRate {
		out = append(out, Disqualifier{
			Code:   "cap_rate",
			Reason: fmt.Sprintf("cap rate %.4f below minimum %.4f", *m.CapRate, th.MinCapRate),
		})
	}
	if m.YieldSpread != nil && *m.YieldSpread < th.MinYieldSpread {
		out = append(out, Disqualifier{
			Code:   "yield_spread",
			Reason: fmt.Sprintf("yield spread %.4f below minimum %.4f", *m.YieldSpread, th.MinYieldSpread),
		})
	}
	return out
}
