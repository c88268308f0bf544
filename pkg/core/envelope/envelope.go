// Package envelope canonicalizes assumption sets into a stable hash and
// builds base/upside/downside scenario envelopes around a triage result.
// The hash is the audit key for rerun detection: identical assumptions
// always hash identically regardless of how the input was assembled.
package envelope

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"gpc_underwriting/pkg/core/assumption"
	"gpc_underwriting/pkg/core/triage"
)

// Canonicalize renders any JSON-serializable value in canonical form:
// object keys recursively sorted, array order preserved, no insignificant
// whitespace. Non-serializable input is a programmer error and surfaces
// as the marshal error.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	// Round-trip through a generic value: encoding/json emits map keys
	// in sorted order, which normalizes whatever field order the input
	// carried.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// AssumptionsHash computes the SHA-256 digest of the canonical form.
func AssumptionsHash(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Envelope names. Base carries the assumptions untouched.
const (
	EnvelopeBase     = "base"
	EnvelopeUpside   = "upside"
	EnvelopeDownside = "downside"
)

// Fixed perturbation multipliers for the upside and downside envelopes.
// Exit cap rate and vacancy move against rent growth: a better market
// compresses the cap rate and vacancy while rents accelerate.
const (
	upsideExitCapMult      = 0.90
	upsideRentGrowthMult   = 1.25
	upsideVacancyMult      = 0.75
	downsideExitCapMult    = 1.10
	downsideRentGrowthMult = 0.50
	downsideVacancyMult    = 1.25
)

// Envelope is one perturbed assumption set plus its identity hash and
// the triage decision it was built under.
type Envelope struct {
	Name            string                  `json:"name"`
	Assumptions     *assumption.Assumptions `json:"assumptions"`
	AssumptionsHash string                  `json:"assumptions_hash"`
	TriageDecision  triage.Decision         `json:"triage_decision,omitempty"`
}

// Set is the full base/upside/downside trio. The change lists record
// exactly which assumption fields each perturbed envelope diverges on
// from the base, so a reader of the output never has to re-diff.
type Set struct {
	Base            Envelope `json:"base"`
	Upside          Envelope `json:"upside"`
	Downside        Envelope `json:"downside"`
	UpsideChanges   []Change `json:"upside_changes"`
	DownsideChanges []Change `json:"downside_changes"`
}

// BuildEnvelopes derives the scenario trio from one assumption set and
// its triage result. Perturbations are expressed as sparse overrides so
// every untouched field carries through bit-identically.
func BuildEnvelopes(a *assumption.Assumptions, tri *triage.Result) (*Set, error) {
	decision := triage.Decision("")
	if tri != nil {
		decision = tri.Decision
	}

	base, err := makeEnvelope(EnvelopeBase, a, nil, decision)
	if err != nil {
		return nil, err
	}

	upCap := a.Exit.ExitCapRate * upsideExitCapMult
	upGrowth := a.RentGrowthAnnual * upsideRentGrowthMult
	upVacancy := a.VacancyRate * upsideVacancyMult
	upside, err := makeEnvelope(EnvelopeUpside, a, &assumption.Overrides{
		ExitCapRate:      &upCap,
		RentGrowthAnnual: &upGrowth,
		VacancyRate:      &upVacancy,
	}, decision)
	if err != nil {
		return nil, err
	}

	downCap := a.Exit.ExitCapRate * downsideExitCapMult
	downGrowth := a.RentGrowthAnnual * downsideRentGrowthMult
	downVacancy := a.VacancyRate * downsideVacancyMult
	downside, err := makeEnvelope(EnvelopeDownside, a, &assumption.Overrides{
		ExitCapRate:      &downCap,
		RentGrowthAnnual: &downGrowth,
		VacancyRate:      &downVacancy,
	}, decision)
	if err != nil {
		return nil, err
	}

	set := &Set{Base: *base, Upside: *upside, Downside: *downside}
	if set.UpsideChanges, err = Changes(base.Assumptions, upside.Assumptions); err != nil {
		return nil, err
	}
	if set.DownsideChanges, err = Changes(base.Assumptions, downside.Assumptions); err != nil {
		return nil, err
	}
	return set, nil
}

func makeEnvelope(name string, a *assumption.Assumptions, ov *assumption.Overrides, decision triage.Decision) (*Envelope, error) {
	perturbed := ov.Apply(a)
	hash, err := AssumptionsHash(perturbed)
	if err != nil {
		return nil, fmt.Errorf("envelope %s: %w", name, err)
	}
	return &Envelope{
		Name:            name,
		Assumptions:     perturbed,
		AssumptionsHash: hash,
		TriageDecision:  decision,
	}, nil
}

// RerunPolicy asserts the determinism contract for a computed result:
// identical input hashes guarantee byte-identical recomputation.
type RerunPolicy struct {
	InputHash     string `json:"input_hash"`
	Deterministic bool   `json:"deterministic"`
	RerunReason   string `json:"rerun_reason"`
}

// RerunPolicyFor compares the current input hash against the previously
// stored one. An empty previous hash means first run.
func RerunPolicyFor(inputHash, previousHash string) RerunPolicy {
	policy := RerunPolicy{InputHash: inputHash, Deterministic: true}
	switch {
	case previousHash == "":
		policy.RerunReason = "first_run"
	case previousHash == inputHash:
		policy.RerunReason = "unchanged_input"
	default:
		policy.RerunReason = "assumptions_changed"
	}
	return policy
}
