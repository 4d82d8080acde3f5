package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEstimateDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defaults.yaml")
	raw := []byte(`markup_percent: 0.12
general_conditions: 25000
overhead_profit: 18000
contingency: 10000
custom_line_items:
  - description: Builder's risk insurance
    amount: 4200
  - description: Permit allowance
    amount: 1500
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write defaults file: %v", err)
	}

	defaults, err := LoadEstimateDefaults(path)
	if err != nil {
		t.Fatalf("LoadEstimateDefaults: %v", err)
	}
	if defaults.MarkupPercent != 0.12 {
		t.Errorf("MarkupPercent = %v, want 0.12", defaults.MarkupPercent)
	}
	if defaults.GeneralConditions != 25000 {
		t.Errorf("GeneralConditions = %v, want 25000", defaults.GeneralConditions)
	}
	if defaults.OverheadProfit != 18000 {
		t.Errorf("OverheadProfit = %v, want 18000", defaults.OverheadProfit)
	}
	if defaults.Contingency != 10000 {
		t.Errorf("Contingency = %v, want 10000", defaults.Contingency)
	}
	if len(defaults.CustomLineItems) != 2 {
		t.Fatalf("CustomLineItems len = %d, want 2", len(defaults.CustomLineItems))
	}
	if defaults.CustomLineItems[0].Description != "Builder's risk insurance" || defaults.CustomLineItems[0].Amount != 4200 {
		t.Errorf("unexpected first custom line: %+v", defaults.CustomLineItems[0])
	}
}

func TestLoadEstimateDefaultsEmptyPath(t *testing.T) {
	defaults, err := LoadEstimateDefaults("")
	if err != nil {
		t.Fatalf("LoadEstimateDefaults: %v", err)
	}
	if defaults.MarkupPercent != 0 || defaults.GeneralConditions != 0 || len(defaults.CustomLineItems) != 0 {
		t.Errorf("expected zero defaults, got %+v", defaults)
	}
}

func TestLoadEstimateDefaultsMissingFile(t *testing.T) {
	if _, err := LoadEstimateDefaults(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadEstimateDefaultsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("markup_percent: [not a number"), 0o644); err != nil {
		t.Fatalf("write defaults file: %v", err)
	}
	if _, err := LoadEstimateDefaults(path); err == nil {
		t.Fatal("expected parse error")
	}
}
