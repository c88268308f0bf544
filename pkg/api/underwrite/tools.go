package underwrite

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gpc_underwriting/pkg/core/ingest"
	"gpc_underwriting/pkg/core/underwrite"
)

// ToolSummary is the compact shape served to the conversational tool
// layer: headline numbers only, no series.
type ToolSummary struct {
	DealName        string   `json:"deal_name"`
	AssumptionsHash string   `json:"assumptions_hash"`
	TriageDecision  string   `json:"triage_decision"`
	Recommendation  string   `json:"recommendation"`
	LeveredIRR      *float64 `json:"levered_irr"`
	EquityMultiple  float64  `json:"equity_multiple"`
	Year1DSCR       *float64 `json:"year1_dscr"`
	BestScenarioID  string   `json:"best_scenario_id"`
	ExitValue       float64  `json:"exit_value"`
}

// HandleToolSummary runs the pipeline and returns only the headline
// metrics, sized for a model context window.
func HandleToolSummary(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r, "POST") {
		return
	}

	var req UnderwriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := ingest.ParseAssumptions(req.Assumptions)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid assumptions: %v", err), http.StatusUnprocessableEntity)
		return
	}

	res, err := underwrite.Run(underwrite.Request{Assumptions: a, Site: req.Site, RiskScores: req.Scores}, playbook)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	summary := ToolSummary{
		DealName:        a.DealName,
		AssumptionsHash: res.AssumptionsHash,
		TriageDecision:  string(res.Triage.Decision),
		Recommendation:  string(res.Recommendation),
		LeveredIRR:      res.ProForma.LeveredIRR,
		EquityMultiple:  res.EquityMultiple,
		Year1DSCR:       res.ProForma.Year1DSCR,
		BestScenarioID:  res.Exits.OverallBestScenarioID,
		ExitValue:       res.ProForma.ExitValue,
	}

	writeJSON(w, summary)
}

// HandleToolSchema describes the tool surface so the conversational
// layer can register it without hand-maintained schemas.
func HandleToolSchema(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r, "GET") {
		return
	}

	schema := map[string]any{
		"name":        "underwrite_deal",
		"description": "Run deterministic underwriting on a deal assumption set and return headline metrics.",
		"endpoint":    "/api/tool/underwrite",
		"input": map[string]any{
			"deal_name":   "string, optional",
			"assumptions": "object, deal assumptions document (JSON or Hjson)",
			"site":        "object, optional site facts for triage",
			"scores":      "object, optional 0-10 risk scores (higher is riskier)",
		},
		"output": map[string]any{
			"triage_decision":  "KILL | HOLD | ADVANCE",
			"recommendation":   "PROCEED | CONDITIONAL | PASS",
			"levered_irr":      "decimal or null when no IRR exists",
			"equity_multiple":  "decimal",
			"year1_dscr":       "decimal or null for unlevered deals",
			"best_scenario_id": "string",
			"exit_value":       "decimal",
			"assumptions_hash": "sha-256 hex, stable across key reordering",
		},
	}

	writeJSON(w, schema)
}
