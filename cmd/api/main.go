package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apiunderwrite "gpc_underwriting/pkg/api/underwrite"
	"gpc_underwriting/pkg/core/store"
	"gpc_underwriting/pkg/core/underwrite"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load the underwriting playbook; defaults apply when the file is
	// absent or partial.
	playbook := underwrite.DefaultPlaybook()
	if configData, err := os.ReadFile("config/playbook.yaml"); err == nil {
		if err := yaml.Unmarshal(configData, &playbook); err != nil {
			fmt.Printf("[WARNING] playbook config unreadable, using defaults: %v\n", err)
			playbook = underwrite.DefaultPlaybook()
		} else {
			fmt.Println("[CONFIG] Loaded config/playbook.yaml")
		}
	}

	// Database is optional: without DATABASE_URL the API still computes,
	// it just skips scorecard persistence.
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Database not available, persistence disabled: %v\n", err)
	} else {
		defer store.Close()
		fmt.Println("[STORE] Connected to Postgres")
	}

	apiunderwrite.InitHandler(playbook, store.NewScorecardRepo(), store.NewMemoArchive(store.GetPool(), ""))

	http.HandleFunc("/api/underwrite", apiunderwrite.HandleUnderwrite)
	http.HandleFunc("/api/triage", apiunderwrite.HandleTriage)
	http.HandleFunc("/api/exits", apiunderwrite.HandleExits)
	http.HandleFunc("/api/rentroll", apiunderwrite.HandleRentRoll)
	http.HandleFunc("/api/tool/underwrite", apiunderwrite.HandleToolSummary)
	http.HandleFunc("/api/tool/schema", apiunderwrite.HandleToolSchema)

	fmt.Println("API server starting on :8080...")
	fmt.Println("  - POST /api/underwrite      (full pipeline + memo)")
	fmt.Println("  - POST /api/triage          (hard filters + risk composite)")
	fmt.Println("  - POST /api/exits           (exit scenario search)")
	fmt.Println("  - POST /api/rentroll        (HTML rent roll extraction)")
	fmt.Println("  - POST /api/tool/underwrite (headline metrics for tool calls)")
	fmt.Println("  - GET  /api/tool/schema")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
