// Package underwrite exposes the underwriting engine over HTTP for the
// deal dashboard and the conversational tool layer.
package underwrite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gpc_underwriting/pkg/core/exitsearch"
	"gpc_underwriting/pkg/core/ingest"
	"gpc_underwriting/pkg/core/report"
	"gpc_underwriting/pkg/core/store"
	"gpc_underwriting/pkg/core/triage"
	"gpc_underwriting/pkg/core/underwrite"
)

var (
	playbook  underwrite.Playbook
	scorecard *store.ScorecardRepo
	memos     *store.MemoArchive
)

// InitHandler wires the handlers to the playbook and persistence. Both
// stores may be nil-pool backed; persistence then degrades gracefully.
func InitHandler(pb underwrite.Playbook, repo *store.ScorecardRepo, archive *store.MemoArchive) {
	playbook = pb
	scorecard = repo
	memos = archive
}

// UnderwriteRequest is the full-run request body. Assumptions is raw so
// the lenient parser can accept Hjson and repaired JSON documents.
type UnderwriteRequest struct {
	DealName    string             `json:"deal_name,omitempty"`
	Assumptions json.RawMessage    `json:"assumptions"`
	Site        *triage.SiteInputs `json:"site,omitempty"`
	Scores      *triage.RiskScores `json:"scores,omitempty"`
}

// UnderwriteResponse pairs the computed result with the rendered memo.
type UnderwriteResponse struct {
	Result *underwrite.Result `json:"result"`
	Memo   string             `json:"memo"`
}

func applyCORS(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleUnderwrite runs the full pipeline and persists the scorecard
// and memo when a database is configured.
func HandleUnderwrite(w http.ResponseWriter, r *http.Request) {
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

	dealName := req.DealName
	if dealName == "" {
		dealName = a.DealName
	}
	fmt.Printf("[UNDERWRITE] Request: %s (hold %dy, price %.0f)\n", dealName, a.Exit.HoldYears, a.PurchasePrice)

	ctx := r.Context()
	previousHash := lookupPreviousHash(ctx, dealName)

	res, err := underwrite.Run(underwrite.Request{
		Assumptions:  a,
		Site:         req.Site,
		RiskScores:   req.Scores,
		PreviousHash: previousHash,
	}, playbook)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	fmt.Printf("[UNDERWRITE] %s: triage=%s rec=%s hash=%s (%s)\n",
		dealName, res.Triage.Decision, res.Recommendation, res.AssumptionsHash[:12], res.RerunPolicy.RerunReason)

	memo := report.RenderMemo(res, dealName)
	persist(ctx, dealName, res, memo)

	writeJSON(w, UnderwriteResponse{Result: res, Memo: memo})
}

// writeJSON encodes the response body. The status line is already out
// by the time encoding can fail, so the error is logged, not returned.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[WARNING] response encode failed: %v\n", err)
	}
}

func lookupPreviousHash(ctx context.Context, dealName string) string {
	if scorecard == nil || store.GetPool() == nil || dealName == "" {
		return ""
	}
	hash, err := scorecard.LatestHashForDeal(ctx, dealName)
	if err != nil {
		fmt.Printf("[WARNING] previous hash lookup failed: %v\n", err)
		return ""
	}
	return hash
}

func persist(ctx context.Context, dealName string, res *underwrite.Result, memo string) {
	if store.GetPool() == nil {
		return
	}
	if scorecard != nil {
		if err := scorecard.Save(ctx, dealName, res); err != nil {
			fmt.Printf("[WARNING] scorecard save failed: %v\n", err)
		}
	}
	if memos != nil {
		if err := memos.Save(ctx, dealName, res.AssumptionsHash, memo); err != nil {
			fmt.Printf("[WARNING] memo archive failed: %v\n", err)
		}
	}
}

// HandleTriage runs the triage gate alone, for early-stage screening
// before any pro forma inputs exist.
func HandleTriage(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r, "POST") {
		return
	}

	var in triage.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := triage.Score(in)
	fmt.Printf("[TRIAGE] decision=%s disqualifiers=%d gaps=%d\n", res.Decision, len(res.Disqualifiers), len(res.DataGaps))

	writeJSON(w, res)
}

// HandleExits runs only the exit scenario search for an assumptions
// document.
func HandleExits(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r, "POST") {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := ingest.ParseAssumptions(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid assumptions: %v", err), http.StatusUnprocessableEntity)
		return
	}

	analysis, err := exitsearch.ModelExitScenarios(a, exitsearch.Options{AfterTax: playbook.AfterTaxRanking})
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	fmt.Printf("[EXITS] %s: %d scenarios, best %s\n", a.DealName, len(analysis.Scenarios), analysis.OverallBestScenarioID)

	writeJSON(w, analysis)
}

// HandleRentRoll extracts tenant leases from an HTML rent roll.
func HandleRentRoll(w http.ResponseWriter, r *http.Request) {
	if applyCORS(w, r, "POST") {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	leases, err := ingest.ParseRentRoll(string(raw))
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	fmt.Printf("[RENTROLL] extracted %d leases\n", len(leases))

	writeJSON(w, leases)
}
