package domain

import (
	"encoding/json"
	"testing"
)

func TestDocumentMissingKeys(t *testing.T) {
	d := Document{}

	if _, ok := d.String("favorite_type"); ok {
		t.Error("String on missing key should report absence")
	}
	if _, ok := d.Float("price"); ok {
		t.Error("Float on missing key should report absence")
	}
	if _, ok := d.Array("restrictions"); ok {
		t.Error("Array on missing key should report absence")
	}
	if s := d.StringSlice("restrictions"); s != nil {
		t.Errorf("StringSlice on missing key should be nil, got %v", s)
	}
	if sub := d.Sub("schedule"); sub != nil {
		t.Errorf("Sub on missing key should be nil, got %v", sub)
	}
}

func TestDocumentNumericTolerance(t *testing.T) {
	// json decoding yields float64 for every number
	var d Document
	if err := json.Unmarshal([]byte(`{"intensity": 8, "price": 45.5}`), &d); err != nil {
		t.Fatal(err)
	}

	if n, ok := d.Int("intensity"); !ok || n != 8 {
		t.Errorf("Int(intensity) = %d, %v", n, ok)
	}
	if f, ok := d.Float("price"); !ok || f != 45.5 {
		t.Errorf("Float(price) = %v, %v", f, ok)
	}

	// values written in-process may be typed ints
	d = Document{"intensity": 8}
	if n, ok := d.Int("intensity"); !ok || n != 8 {
		t.Errorf("Int over native int = %d, %v", n, ok)
	}
}

func TestDocumentWrongShapes(t *testing.T) {
	d := Document{
		"favorite_type": 12,
		"restrictions":  "not-a-list",
		"schedule":      []any{"not-a-map"},
	}

	if _, ok := d.String("favorite_type"); ok {
		t.Error("String over a number should report absence")
	}
	if s := d.StringSlice("restrictions"); s != nil {
		t.Errorf("StringSlice over a scalar should be nil, got %v", s)
	}
	if sub := d.Sub("schedule"); sub != nil {
		t.Errorf("Sub over an array should be nil, got %v", sub)
	}
}

func TestDocumentStringSliceSkipsNonStrings(t *testing.T) {
	d := Document{"restrictions": []any{"vertigo", 3, "heart_condition"}}

	got := d.StringSlice("restrictions")
	if len(got) != 2 || got[0] != "vertigo" || got[1] != "heart_condition" {
		t.Errorf("StringSlice = %v", got)
	}
}

func TestDocumentSub(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte(`{"schedule":{"open":"10:00","maintenance":[{"reason":"paint"}]}}`), &d); err != nil {
		t.Fatal(err)
	}

	schedule := d.Sub("schedule")
	if schedule == nil {
		t.Fatal("expected schedule sub-document")
	}
	if open, ok := schedule.String("open"); !ok || open != "10:00" {
		t.Errorf("schedule.open = %q, %v", open, ok)
	}
	if windows, ok := schedule.Array("maintenance"); !ok || len(windows) != 1 {
		t.Errorf("maintenance windows = %v, %v", windows, ok)
	}
}
