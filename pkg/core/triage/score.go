package triage

import "fmt"

// Risk score categories, each scored 0-10 where higher is riskier.
// Missing categories are excluded from the composite, not penalized.
type RiskScores struct {
	Access        *float64 `json:"access,omitempty"`
	Drainage      *float64 `json:"drainage,omitempty"`
	Adjacency     *float64 `json:"adjacency,omitempty"`
	Environmental *float64 `json:"env,omitempty"`
	Utilities     *float64 `json:"utilities,omitempty"`
	Politics      *float64 `json:"politics,omitempty"`
}

// riskWeights skews the composite toward the categories that sink
// industrial land deals in practice. Weights sum to 1.0; missing
// categories renormalize over the present ones.
var riskWeights = []struct {
	key    string
	weight float64
	get    func(RiskScores) *float64
}{
	{"access", 0.20, func(s RiskScores) *float64 { return s.Access }},
	{"drainage", 0.15, func(s RiskScores) *float64 { return s.Drainage }},
	{"adjacency", 0.10, func(s RiskScores) *float64 { return s.Adjacency }},
	{"env", 0.25, func(s RiskScores) *float64 { return s.Environmental }},
	{"utilities", 0.15, func(s RiskScores) *float64 { return s.Utilities }},
	{"politics", 0.15, func(s RiskScores) *float64 { return s.Politics }},
}

// advanceThreshold is the composite ceiling for ADVANCE. Composites
// above it, on the 0-10 riskier-is-higher scale, hold for more work.
const advanceThreshold = 4.0

// CompositeRisk returns the weighted composite of the present risk
// scores, renormalized over present weights, or nil when every category
// is missing. Inputs are clamped to the 0-10 scale.
func CompositeRisk(scores RiskScores) *float64 {
	var weighted, totalWeight float64
	for _, rw := range riskWeights {
		v := rw.get(scores)
		if v == nil {
			continue
		}
		weighted += clamp(*v, 0, 10) * rw.weight
		totalWeight += rw.weight
	}
	if totalWeight == 0 {
		return nil
	}
	composite := weighted / totalWeight
	return &composite
}

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// NextAction is a concrete follow-up emitted with the decision.
// PipelineStep maps into the acquisition pipeline's eight stages.
type NextAction struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PipelineStep int    `json:"pipeline_step"`
	DueInDays    int    `json:"due_in_days"`
}

// Assumption records something the decision leaned on, with optional
// evidence references (document IDs, URLs, parcel records).
type Assumption struct {
	Statement string   `json:"statement"`
	Evidence  []string `json:"evidence,omitempty"`
}

// Result is the full triage output.
type Result struct {
	Decision      Decision       `json:"decision"`
	Composite     *float64       `json:"composite_risk"`
	RiskScores    RiskScores     `json:"risk_scores"`
	Disqualifiers []Disqualifier `json:"disqualifiers"`
	DataGaps      []string       `json:"data_gaps"`
	Provisional   bool           `json:"is_provisional"`
	NextActions   []NextAction   `json:"next_actions"`
	Assumptions   []Assumption   `json:"assumptions"`
}

// Input bundles everything the triage gate consumes.
type Input struct {
	Site       SiteInputs          `json:"site"`
	Financial  FinancialMetrics    `json:"financial"`
	Scores     RiskScores          `json:"scores"`
	Thresholds FinancialThresholds `json:"thresholds"`
}

// Score runs the full gate: hard filters first, then the weighted
// composite. Any disqualifier forces KILL. With no disqualifiers the
// composite decides; a deal with no risk scores at all is provisional
// and holds for data rather than being killed. Data gaps are reported
// in a fixed order so identical inputs produce identical output.
func Score(in Input) Result {
	if in.Thresholds == (FinancialThresholds{}) {
		in.Thresholds = DefaultThresholds()
	}

	res := Result{
		RiskScores:    in.Scores,
		Disqualifiers: []Disqualifier{},
	}
	res.Disqualifiers = append(res.Disqualifiers, HardFilterCheck(in.Site)...)
	res.Disqualifiers = append(res.Disqualifiers, FinancialHardFilterCheck(in.Financial, in.Thresholds)...)

	res.DataGaps = collectGaps(in)
	res.Provisional = len(res.DataGaps) > 0
	res.Composite = CompositeRisk(in.Scores)

	switch {
	case len(res.Disqualifiers) > 0:
		res.Decision = DecisionKill
	case res.Composite == nil:
		// No risk scores at all: insufficient data, not a failure.
		res.Decision = DecisionHold
	case *res.Composite <= advanceThreshold:
		res.Decision = DecisionAdvance
	default:
		res.Decision = DecisionHold
	}

	res.NextActions = nextActions(res)
	res.Assumptions = baseAssumptions(in)
	return res
}

// collectGaps lists the missing inputs in declaration order.
func collectGaps(in Input) []string {
	var gaps []string
	if in.Site.FloodZone == nil {
		gaps = append(gaps, "site.flood_zone")
	}
	if in.Site.UtilitiesAvailable == nil {
		gaps = append(gaps, "site.utilities_available")
	}
	if in.Site.RoadAccess == nil {
		gaps = append(gaps, "site.road_access")
	}
	if in.Site.Zoning == nil {
		gaps = append(gaps, "site.zoning")
	}
	if in.Financial.DSCR == nil {
		gaps = append(gaps, "financial.dscr")
	}
	if in.Financial.CapRate == nil {
		gaps = append(gaps, "financial.cap_rate")
	}
	if in.Financial.YieldSpread == nil {
		gaps = append(gaps, "financial.yield_spread")
	}
	for _, rw := range riskWeights {
		if rw.get(in.Scores) == nil {
			gaps = append(gaps, "scores."+rw.key)
		}
	}
	return gaps
}

// nextActions derives concrete follow-ups from the decision: close the
// data gaps that drove a provisional or HOLD result, and record the
// disposition steps for the rest.
func nextActions(res Result) []NextAction {
	var out []NextAction

	if res.Decision == DecisionKill {
		out = append(out, NextAction{
			Title:        "Close out deal file",
			Description:  "Record hard-filter failure and notify the broker the deal is dead.",
			PipelineStep: 1,
			DueInDays:    3,
		})
		return out
	}

	for _, gap := range res.DataGaps {
		switch gap {
		case "site.flood_zone":
			out = append(out, NextAction{
				Title:        "Pull FEMA flood determination",
				Description:  "Look up the FIRM panel for the parcel and record the flood zone.",
				PipelineStep: 2,
				DueInDays:    7,
			})
		case "site.utilities_available":
			out = append(out, NextAction{
				Title:        "Confirm utility availability",
				Description:  "Verify water, sewer, and power service at the parcel line with the local utility.",
				PipelineStep: 2,
				DueInDays:    14,
			})
		case "site.zoning":
			out = append(out, NextAction{
				Title:        "Verify zoning designation",
				Description:  "Confirm the parish zoning designation and permitted uses for the parcel.",
				PipelineStep: 2,
				DueInDays:    7,
			})
		}
	}

	if res.Decision == DecisionAdvance {
		out = append(out, NextAction{
			Title:        "Open underwriting file",
			Description:  "Advance to full pro forma underwriting and order preliminary title.",
			PipelineStep: 3,
			DueInDays:    7,
		})
	} else {
		out = append(out, NextAction{
			Title:        "Re-triage after data collection",
			Description:  "Hold the deal and rerun triage once the open data gaps are closed.",
			PipelineStep: 2,
			DueInDays:    30,
		})
	}
	return out
}

func baseAssumptions(in Input) []Assumption {
	out := []Assumption{{
		Statement: fmt.Sprintf("hard filter floors: DSCR %.2f, cap rate %.4f, yield spread %.4f",
			in.Thresholds.MinDSCR, in.Thresholds.MinCapRate, in.Thresholds.MinYieldSpread),
	}}
	if in.Site.FloodZone != nil {
		out = append(out, Assumption{
			Statement: fmt.Sprintf("flood zone %s taken as recorded", *in.Site.FloodZone),
			Evidence:  []string{"fema_firm_lookup"},
		})
	}
	return out
}
