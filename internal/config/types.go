// Package config assembles the types tree passed to internal/solver
// from the taint recorder's own JSON plus the two supplemental
// override mechanisms spec.md §6 adds on top of it: a YAML document of
// manual overrides, and an RFC 7396 JSON merge patch.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/goccy/go-yaml"
)

// ApplyTypesOverrides layers typesYAMLPath (if non-empty) and then
// typesPatchPath (if non-empty) onto the types tree decoded from the
// taint recorder's JSON, returning the final merged types document.
func ApplyTypesOverrides(base json.RawMessage, typesYAMLPath, typesPatchPath string) (json.RawMessage, error) {
	merged := base
	if len(merged) == 0 {
		merged = json.RawMessage("{}")
	}

	if typesYAMLPath != "" {
		overlay, err := loadYAMLAsJSON(typesYAMLPath)
		if err != nil {
			return nil, err
		}
		next, err := jsonpatch.MergePatch(merged, overlay)
		if err != nil {
			return nil, fmt.Errorf("config: merging %s into types: %w", typesYAMLPath, err)
		}
		merged = next
	}

	if typesPatchPath != "" {
		patch, err := os.ReadFile(typesPatchPath)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", typesPatchPath, err)
		}
		next, err := jsonpatch.MergePatch(merged, patch)
		if err != nil {
			return nil, fmt.Errorf("config: applying %s to types: %w", typesPatchPath, err)
		}
		merged = next
	}

	return merged, nil
}

// loadYAMLAsJSON reads a YAML document of type overrides and
// round-trips it through a generic map so it can be merge-patched
// alongside the JSON types tree (jsonpatch.MergePatch only operates on
// JSON documents).
func loadYAMLAsJSON(path string) (json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("config: re-encoding %s as JSON: %w", path, err)
	}
	return out, nil
}
