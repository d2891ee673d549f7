package constraint

import (
	"encoding/json"
	"testing"

	"github.com/pmforce-sec/pmforce/internal/jstype"
)

func TestFlattenTypesEmptyIsNoop(t *testing.T) {
	table := jstype.NewTable()
	if err := FlattenTypes(nil, table); err != nil {
		t.Fatalf("FlattenTypes: %v", err)
	}
	if len(table.Keys()) != 0 {
		t.Errorf("expected no entries from an empty document")
	}
}

func TestFlattenTypesPairsShape(t *testing.T) {
	table := jstype.NewTable()
	raw := json.RawMessage(`[["event.data.cmd","string"],["event.data.n","number"]]`)
	if err := FlattenTypes(raw, table); err != nil {
		t.Fatalf("FlattenTypes: %v", err)
	}
	typ, ok := table.Lookup("event.data.cmd")
	if !ok || typ != jstype.String {
		t.Errorf("got (%v, %v), want (String, true)", typ, ok)
	}
	typ, ok = table.Lookup("event.data.n")
	if !ok || typ != jstype.Number {
		t.Errorf("got (%v, %v), want (Number, true)", typ, ok)
	}
}

func TestFlattenTypesTreeShapeRootedAtEvent(t *testing.T) {
	table := jstype.NewTable()
	raw := json.RawMessage(`{"event":{"data":{"cmd":"string","n":"number"},"origin":"string"}}`)
	if err := FlattenTypes(raw, table); err != nil {
		t.Fatalf("FlattenTypes: %v", err)
	}
	for path, want := range map[string]jstype.Type{
		"event.data.cmd": jstype.String,
		"event.data.n":   jstype.Number,
		"event.origin":   jstype.String,
	} {
		typ, ok := table.Lookup(path)
		if !ok || typ != want {
			t.Errorf("Lookup(%q) = (%v, %v), want (%v, true)", path, typ, ok, want)
		}
	}
}

func TestFlattenTypesTreeWithoutEventKeyIsRootedAnyway(t *testing.T) {
	table := jstype.NewTable()
	raw := json.RawMessage(`{"data":{"cmd":"string"}}`)
	if err := FlattenTypes(raw, table); err != nil {
		t.Fatalf("FlattenTypes: %v", err)
	}
	typ, ok := table.Lookup("event.data.cmd")
	if !ok || typ != jstype.String {
		t.Errorf("got (%v, %v), want (String, true)", typ, ok)
	}
}

func TestFlattenTypesScalarEventType(t *testing.T) {
	table := jstype.NewTable()
	raw := json.RawMessage(`{"event":"object"}`)
	if err := FlattenTypes(raw, table); err != nil {
		t.Fatalf("FlattenTypes: %v", err)
	}
	typ, ok := table.Lookup("event")
	if !ok || typ != jstype.Object {
		t.Errorf("got (%v, %v), want (Object, true)", typ, ok)
	}
}

func TestFlattenTypesRejectsUnrecognizedTypeName(t *testing.T) {
	table := jstype.NewTable()
	raw := json.RawMessage(`{"event":{"data":{"cmd":"symbol"}}}`)
	if err := FlattenTypes(raw, table); err == nil {
		t.Errorf("expected an error for an unrecognized type name")
	}
}
