package envelope

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Change is one field-level divergence between two envelopes. Before and
// After hold the canonical JSON rendering of each side; an empty string
// means the field is absent on that side.
type Change struct {
	Path   string `json:"path"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Changes diffs two serializable values field by field, walking objects
// recursively and treating arrays as atomic when their lengths differ.
// Paths use dotted object keys and bracketed array indexes, and come
// back sorted so the diff itself is deterministic.
func Changes(before, after any) ([]Change, error) {
	var b, a any
	if err := reparse(before, &b); err != nil {
		return nil, err
	}
	if err := reparse(after, &a); err != nil {
		return nil, err
	}

	var out []Change
	walkDiff("", b, a, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func reparse(v any, dst *any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("diff input: %w", err)
	}
	return json.Unmarshal(raw, dst)
}

func walkDiff(path string, before, after any, out *[]Change) {
	bm, bOK := before.(map[string]any)
	am, aOK := after.(map[string]any)
	if bOK && aOK {
		keys := map[string]bool{}
		for k := range bm {
			keys[k] = true
		}
		for k := range am {
			keys[k] = true
		}
		for k := range keys {
			walkDiff(joinPath(path, k), bm[k], am[k], out)
		}
		return
	}

	bs, bOK := before.([]any)
	as, aOK := after.([]any)
	if bOK && aOK && len(bs) == len(as) {
		for i := range bs {
			walkDiff(fmt.Sprintf("%s[%d]", path, i), bs[i], as[i], out)
		}
		return
	}

	if !equalJSON(before, after) {
		*out = append(*out, Change{
			Path:   path,
			Before: renderLeaf(before),
			After:  renderLeaf(after),
		})
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func equalJSON(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ra) == string(rb)
}

func renderLeaf(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
