package constraint

import (
	"encoding/json"
	"fmt"
)

// Literal decodes a leaf's RawValue (preferring RawValue, falling back
// to RawVal — the upstream recorder uses "value" or "val" for the
// isRealValue field depending on call site, per spec.md §3) into one of
// string, float64/int, bool, []any, map[string]any, or nil.
func (n *Node) Literal() (any, error) {
	raw := n.RawValue
	if len(raw) == 0 {
		raw = n.RawVal
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("constraint: decoding literal: %w", err)
	}
	return v, nil
}
