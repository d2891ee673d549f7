package constraint

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pmforce-sec/pmforce/internal/jstype"
)

// FlattenTypes implements spec.md §4.8 step 1: the "types" field of the
// input JSON is either a recursive object (leaves are type-name
// strings, per spec.md §3's "Types table") or a flat list of
// [path, type] pairs. Either shape is flattened into table, rooted at
// "event".
func FlattenTypes(raw json.RawMessage, table *jstype.Table) error {
	if len(raw) == 0 {
		return nil
	}
	// Try the [[path, type], ...] shape first: it round-trips through
	// json.RawMessage unambiguously as a top-level JSON array.
	var pairs []json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err == nil {
		for _, p := range pairs {
			var pair [2]string
			if err := json.Unmarshal(p, &pair); err != nil {
				return fmt.Errorf("constraint: decoding [path, type] pair: %w", err)
			}
			var typ jstype.Type
			if err := typ.UnmarshalText([]byte(pair[1])); err != nil {
				return fmt.Errorf("constraint: decoding type for %q: %w", pair[0], err)
			}
			table.Set(pair[0], typ)
		}
		return nil
	}

	var tree map[string]json.RawMessage
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("constraint: decoding types tree: %w", err)
	}
	event, ok := tree["event"]
	if !ok {
		return flattenTree("event", tree, table)
	}
	var eventTree map[string]json.RawMessage
	if err := json.Unmarshal(event, &eventTree); err != nil {
		// "event" itself is a scalar type name.
		var typ jstype.Type
		var name string
		if err := json.Unmarshal(event, &name); err == nil && typ.UnmarshalText([]byte(name)) == nil {
			table.Set("event", typ)
			return nil
		}
		return fmt.Errorf("constraint: decoding types tree under event: %w", err)
	}
	return flattenTree("event", eventTree, table)
}

func flattenTree(prefix string, tree map[string]json.RawMessage, table *jstype.Table) error {
	// Sort for deterministic traversal (matters for tests and logs,
	// not for correctness: Table itself is order-independent).
	keys := make([]string, 0, len(tree))
	for k := range tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		raw := tree[k]
		path := prefix + "." + k
		var sub map[string]json.RawMessage
		if err := json.Unmarshal(raw, &sub); err == nil && len(sub) > 0 {
			if err := flattenTree(path, sub, table); err != nil {
				return err
			}
			continue
		}
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return fmt.Errorf("constraint: decoding type for %q: %w", path, err)
		}
		var typ jstype.Type
		if err := typ.UnmarshalText([]byte(name)); err != nil {
			return fmt.Errorf("constraint: decoding type for %q: %w", path, err)
		}
		table.Set(path, typ)
	}
	return nil
}
