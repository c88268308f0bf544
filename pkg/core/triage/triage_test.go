package triage

import "testing"

func strPtr(s string) *string   { return &s }
func boolPtr(b bool) *bool      { return &b }
func f64Ptr(f float64) *float64 { return &f }

func TestHardFilterCheck_SFHADisqualifies(t *testing.T) {
	dq := HardFilterCheck(SiteInputs{FloodZone: strPtr("AE")})
	if len(dq) != 1 {
		t.Fatalf("disqualifiers = %d, want 1", len(dq))
	}
	if dq[0].Code != "flood_zone" {
		t.Errorf("code = %s, want flood_zone", dq[0].Code)
	}
}

func TestHardFilterCheck_EmptyInputPasses(t *testing.T) {
	if dq := HardFilterCheck(SiteInputs{}); len(dq) != 0 {
		t.Errorf("empty input produced %d disqualifiers, want 0", len(dq))
	}
}

func TestHardFilterCheck_AllSFHAZones(t *testing.T) {
	for _, zone := range []string{"A", "AE", "AH", "AO", "AR", "A99", "V", "VE"} {
		if dq := HardFilterCheck(SiteInputs{FloodZone: strPtr(zone)}); len(dq) != 1 {
			t.Errorf("zone %s: %d disqualifiers, want 1", zone, len(dq))
		}
	}
	// Zone X is outside the hazard area.
	if dq := HardFilterCheck(SiteInputs{FloodZone: strPtr("X")}); len(dq) != 0 {
		t.Errorf("zone X disqualified")
	}
}

func TestHardFilterCheck_ExplicitBadValuesOnly(t *testing.T) {
	// Explicit false fails.
	if dq := HardFilterCheck(SiteInputs{UtilitiesAvailable: boolPtr(false)}); len(dq) != 1 {
		t.Errorf("explicit no-utilities: %d disqualifiers, want 1", len(dq))
	}
	if dq := HardFilterCheck(SiteInputs{RoadAccess: boolPtr(false)}); len(dq) != 1 {
		t.Errorf("explicit no-road-access: %d disqualifiers, want 1", len(dq))
	}
	// Explicit true passes; absent passes.
	if dq := HardFilterCheck(SiteInputs{UtilitiesAvailable: boolPtr(true), Contaminated: boolPtr(false)}); len(dq) != 0 {
		t.Errorf("good explicit values disqualified: %v", dq)
	}
}

func TestHardFilterCheck_ZoningUseConflict(t *testing.T) {
	dq := HardFilterCheck(SiteInputs{
		Zoning:      strPtr("R-1"),
		ProposedUse: strPtr("warehouse"),
	})
	if len(dq) != 1 || dq[0].Code != "zoning_use_conflict" {
		t.Fatalf("disqualifiers = %v, want one zoning_use_conflict", dq)
	}

	// Either side absent: no conflict can be established.
	if dq := HardFilterCheck(SiteInputs{Zoning: strPtr("R-1")}); len(dq) != 0 {
		t.Errorf("zoning alone disqualified")
	}
	// Compatible pairing passes.
	if dq := HardFilterCheck(SiteInputs{Zoning: strPtr("M-1"), ProposedUse: strPtr("warehouse")}); len(dq) != 0 {
		t.Errorf("industrial zoning disqualified industrial use")
	}
}

func TestFinancialHardFilterCheck(t *testing.T) {
	th := DefaultThresholds()

	// All metrics at their floors pass.
	pass := FinancialMetrics{DSCR: f64Ptr(1.25), CapRate: f64Ptr(0.07), YieldSpread: f64Ptr(0.015)}
	if dq := FinancialHardFilterCheck(pass, th); len(dq) != 0 {
		t.Errorf("floor values disqualified: %v", dq)
	}

	// Below-floor DSCR fails.
	fail := FinancialMetrics{DSCR: f64Ptr(1.10)}
	dq := FinancialHardFilterCheck(fail, th)
	if len(dq) != 1 || dq[0].Code != "dscr" {
		t.Fatalf("disqualifiers = %v, want one dscr", dq)
	}

	// Missing metrics never fail.
	if dq := FinancialHardFilterCheck(FinancialMetrics{}, th); len(dq) != 0 {
		t.Errorf("missing metrics disqualified: %v", dq)
	}
}

func TestCompositeRisk(t *testing.T) {
	// All categories at the same score collapse to that score.
	flat := RiskScores{
		Access: f64Ptr(3), Drainage: f64Ptr(3), Adjacency: f64Ptr(3),
		Environmental: f64Ptr(3), Utilities: f64Ptr(3), Politics: f64Ptr(3),
	}
	c := CompositeRisk(flat)
	if c == nil || *c != 3.0 {
		t.Fatalf("flat composite = %v, want 3.0", c)
	}

	// Missing categories renormalize instead of penalizing.
	partial := RiskScores{Access: f64Ptr(2), Environmental: f64Ptr(2)}
	c = CompositeRisk(partial)
	if c == nil || *c != 2.0 {
		t.Fatalf("partial composite = %v, want 2.0", c)
	}

	// No categories: no composite.
	if c = CompositeRisk(RiskScores{}); c != nil {
		t.Errorf("empty composite = %f, want nil", *c)
	}

	// Out-of-range inputs are clamped.
	hot := RiskScores{Access: f64Ptr(25)}
	if c = CompositeRisk(hot); c == nil || *c != 10.0 {
		t.Errorf("clamped composite = %v, want 10.0", c)
	}
}

func TestScore_DisqualifierForcesKill(t *testing.T) {
	res := Score(Input{
		Site: SiteInputs{FloodZone: strPtr("VE")},
		Scores: RiskScores{
			Access: f64Ptr(1), Drainage: f64Ptr(1), Adjacency: f64Ptr(1),
			Environmental: f64Ptr(1), Utilities: f64Ptr(1), Politics: f64Ptr(1),
		},
	})
	if res.Decision != DecisionKill {
		t.Fatalf("decision = %s, want KILL", res.Decision)
	}
	if len(res.Disqualifiers) == 0 {
		t.Error("KILL with no recorded disqualifier")
	}
	if len(res.NextActions) == 0 {
		t.Error("KILL emitted no next actions")
	}
}

func TestScore_CompositeDecidesAdvanceOrHold(t *testing.T) {
	low := RiskScores{
		Access: f64Ptr(2), Drainage: f64Ptr(3), Adjacency: f64Ptr(2),
		Environmental: f64Ptr(3), Utilities: f64Ptr(2), Politics: f64Ptr(3),
	}
	res := Score(Input{Scores: low})
	if res.Decision != DecisionAdvance {
		t.Errorf("low-risk decision = %s, want ADVANCE (composite %v)", res.Decision, res.Composite)
	}

	high := RiskScores{
		Access: f64Ptr(7), Drainage: f64Ptr(8), Adjacency: f64Ptr(6),
		Environmental: f64Ptr(7), Utilities: f64Ptr(8), Politics: f64Ptr(6),
	}
	res = Score(Input{Scores: high})
	if res.Decision != DecisionHold {
		t.Errorf("high-risk decision = %s, want HOLD (composite %v)", res.Decision, res.Composite)
	}
}

func TestScore_InsufficientDataIsHoldNotKill(t *testing.T) {
	res := Score(Input{})
	if res.Decision != DecisionHold {
		t.Fatalf("decision with no data = %s, want HOLD", res.Decision)
	}
	if res.Composite != nil {
		t.Errorf("composite with no scores = %f, want nil", *res.Composite)
	}
	if !res.Provisional {
		t.Error("no-data result not marked provisional")
	}
	if len(res.DataGaps) == 0 {
		t.Error("no data gaps reported for empty input")
	}
	if len(res.Disqualifiers) != 0 {
		t.Errorf("empty input disqualified: %v", res.Disqualifiers)
	}
}

func TestScore_DefaultThresholdsApplied(t *testing.T) {
	res := Score(Input{Financial: FinancialMetrics{DSCR: f64Ptr(1.10)}})
	if res.Decision != DecisionKill {
		t.Errorf("sub-1.25 DSCR with zero-value thresholds = %s, want KILL under defaults", res.Decision)
	}
}

func TestScore_NextActionsTargetGaps(t *testing.T) {
	res := Score(Input{Scores: RiskScores{Access: f64Ptr(2)}})

	found := false
	for _, na := range res.NextActions {
		if na.PipelineStep < 1 || na.PipelineStep > 8 {
			t.Errorf("action %q pipeline step %d out of range", na.Title, na.PipelineStep)
		}
		if na.Title == "Pull FEMA flood determination" {
			found = true
		}
	}
	if !found {
		t.Error("missing flood zone did not produce a FEMA lookup action")
	}
}

func TestScore_Deterministic(t *testing.T) {
	in := Input{
		Site:   SiteInputs{Zoning: strPtr("M-1")},
		Scores: RiskScores{Access: f64Ptr(3), Environmental: f64Ptr(5)},
	}
	a := Score(in)
	b := Score(in)

	if a.Decision != b.Decision {
		t.Error("decision differs across identical runs")
	}
	if len(a.DataGaps) != len(b.DataGaps) {
		t.Fatal("data gap count differs")
	}
	for i := range a.DataGaps {
		if a.DataGaps[i] != b.DataGaps[i] {
			t.Errorf("data gap order differs at %d: %s vs %s", i, a.DataGaps[i], b.DataGaps[i])
		}
	}
}
