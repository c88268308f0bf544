// Package ingest turns broker-supplied deal files into assumption sets:
// lenient JSON/Hjson parsing for assumption documents and HTML table
// extraction for rent rolls. Files in the wild are written by humans, so
// strict parsing is the first attempt, never the only one.
package ingest

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"gpc_underwriting/pkg/core/assumption"
)

// ParseAssumptions decodes an assumptions document. Strict JSON is tried
// first; on failure the input is run through repair (unquoted keys,
// trailing commas, markdown fences) and finally parsed as Hjson, which
// also accepts comments and optional commas. The decoded set is
// structurally validated before it is returned.
func ParseAssumptions(raw []byte) (*assumption.Assumptions, error) {
	a, err := decodeAssumptions(raw)
	if err != nil {
		return nil, err
	}
	if err := assumption.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeAssumptions(raw []byte) (*assumption.Assumptions, error) {
	var a assumption.Assumptions
	strictErr := json.Unmarshal(raw, &a)
	if strictErr == nil {
		return &a, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(raw)); err == nil {
		a = assumption.Assumptions{}
		if json.Unmarshal([]byte(repaired), &a) == nil {
			return &a, nil
		}
	}

	a = assumption.Assumptions{}
	if err := hjson.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("assumptions document unparseable: %w", strictErr)
	}
	return &a, nil
}
