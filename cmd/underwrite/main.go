package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"gpc_underwriting/pkg/core/ingest"
	"gpc_underwriting/pkg/core/report"
	"gpc_underwriting/pkg/core/store"
	"gpc_underwriting/pkg/core/underwrite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	dealFile := flag.String("deal", "", "path to the deal assumptions file (JSON or Hjson)")
	rentRollFile := flag.String("rentroll", "", "optional HTML rent roll to merge into the assumptions")
	playbookFile := flag.String("playbook", "config/playbook.yaml", "underwriting playbook")
	memoOut := flag.String("out", "", "memo output path (default: memo archive directory)")
	flag.Parse()

	if *dealFile == "" {
		log.Fatal("Error: -deal is required.")
	}

	raw, err := os.ReadFile(*dealFile)
	if err != nil {
		log.Fatalf("Critical: cannot read deal file %s: %v", *dealFile, err)
	}
	assumptions, err := ingest.ParseAssumptions(raw)
	if err != nil {
		log.Fatalf("Deal file rejected: %v", err)
	}

	if *rentRollFile != "" {
		html, err := os.ReadFile(*rentRollFile)
		if err != nil {
			log.Fatalf("Critical: cannot read rent roll %s: %v", *rentRollFile, err)
		}
		leases, err := ingest.ParseRentRoll(string(html))
		if err != nil {
			log.Fatalf("Rent roll rejected: %v", err)
		}
		assumptions.Leases = leases
		fmt.Printf("[RENTROLL] merged %d leases from %s\n", len(leases), *rentRollFile)
	}

	playbook := underwrite.DefaultPlaybook()
	if configData, err := os.ReadFile(*playbookFile); err == nil {
		if err := yaml.Unmarshal(configData, &playbook); err != nil {
			log.Fatalf("Playbook %s unreadable: %v", *playbookFile, err)
		}
	}

	ctx := context.Background()
	previousHash := ""
	if err := store.InitDB(ctx); err == nil {
		defer store.Close()
		if hash, err := store.NewScorecardRepo().LatestHashForDeal(ctx, assumptions.DealName); err == nil {
			previousHash = hash
		}
	}

	res, err := underwrite.Run(underwrite.Request{Assumptions: assumptions, PreviousHash: previousHash}, playbook)
	if err != nil {
		log.Fatalf("Underwriting failed: %v", err)
	}

	fmt.Printf("[RESULT] triage=%s recommendation=%s hash=%s (%s)\n",
		res.Triage.Decision, res.Recommendation, res.AssumptionsHash[:12], res.RerunPolicy.RerunReason)
	if res.ProForma.LeveredIRR != nil {
		fmt.Printf("[RESULT] levered IRR %.1f%%, equity multiple %.2fx, best exit %s\n",
			*res.ProForma.LeveredIRR*100, res.EquityMultiple, res.Exits.OverallBestScenarioID)
	}

	memo := report.RenderMemo(res, assumptions.DealName)

	if store.GetPool() != nil {
		if err := store.NewScorecardRepo().Save(ctx, assumptions.DealName, res); err != nil {
			fmt.Printf("[WARNING] scorecard save failed: %v\n", err)
		}
	}

	if *memoOut != "" {
		if err := os.WriteFile(*memoOut, []byte(memo), 0644); err != nil {
			log.Fatalf("Cannot write memo to %s: %v", *memoOut, err)
		}
		fmt.Printf("[MEMO] written to %s\n", *memoOut)
		return
	}

	archive := store.NewMemoArchive(store.GetPool(), "")
	if err := archive.Save(ctx, assumptions.DealName, res.AssumptionsHash, memo); err != nil {
		log.Fatalf("Memo archive failed: %v", err)
	}
	fmt.Println("[MEMO] archived")
}
