package leveling

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func estimateItem(desc string, div *types.Division, fallback *float64) *types.ScopeItem {
	item := &types.ScopeItem{ID: uuid.New(), Description: desc, FallbackPrice: fallback}
	item.Division = div
	return item
}

func TestComposeEstimateGrandTotalIdentity(t *testing.T) {
	concrete := &types.Division{ID: uuid.New(), Code: "03", Name: "Concrete"}
	electrical := &types.Division{ID: uuid.New(), Code: "26", Name: "Electrical"}

	itemA := estimateItem("Footings", concrete, nil)
	itemB := estimateItem("Branch wiring", electrical, nil)
	items := []*types.ScopeItem{itemA, itemB}
	winners := map[uuid.UUID]float64{itemA.ID: 1000, itemB.ID: 2000}

	settings := &types.EstimateSetting{
		MarkupPercent:     0.10,
		GeneralConditions: 500,
		OverheadProfit:    300,
		Contingency:       200,
		CustomLineItems:   []types.CustomLineItem{{Description: "Permit fees", Amount: 150}},
	}

	breakdown := ComposeEstimate(items, winners, settings)

	wantSubtotal := 1000*1.10 + 2000*1.10
	if !almostEqual(breakdown.Subtotal, wantSubtotal) {
		t.Fatalf("expected subtotal %v, got %v", wantSubtotal, breakdown.Subtotal)
	}
	wantGrand := wantSubtotal + 500 + 300 + 200 + 150
	if !almostEqual(breakdown.GrandTotal, wantGrand) {
		t.Fatalf("expected grand total %v, got %v", wantGrand, breakdown.GrandTotal)
	}

	// markup is folded into lines, never its own line
	for _, g := range breakdown.Divisions {
		for _, line := range g.Lines {
			if line.Description == "Markup" {
				t.Fatalf("markup must not surface as a line item")
			}
		}
	}
}

func TestComposeEstimateAllOptionalZero(t *testing.T) {
	div := &types.Division{ID: uuid.New(), Code: "09", Name: "Finishes"}
	item := estimateItem("Paint", div, nil)
	winners := map[uuid.UUID]float64{item.ID: 800}

	breakdown := ComposeEstimate([]*types.ScopeItem{item}, winners, &types.EstimateSetting{})
	if !almostEqual(breakdown.GrandTotal, breakdown.Subtotal) {
		t.Fatalf("with all knobs zero, grand total (%v) must equal subtotal (%v)", breakdown.GrandTotal, breakdown.Subtotal)
	}
	if !almostEqual(breakdown.Subtotal, 800) {
		t.Fatalf("expected subtotal 800, got %v", breakdown.Subtotal)
	}
}

func TestComposeEstimateFallbackPrice(t *testing.T) {
	div := &types.Division{ID: uuid.New(), Code: "05", Name: "Metals"}
	fallback := 950.0
	item := estimateItem("Misc steel", div, &fallback)

	breakdown := ComposeEstimate([]*types.ScopeItem{item}, nil, nil)
	if !almostEqual(breakdown.Subtotal, 950) {
		t.Fatalf("expected fallback price used, got %v", breakdown.Subtotal)
	}
}

func TestComposeEstimateDefaultDivision(t *testing.T) {
	orphan := estimateItem("Temporary fencing", nil, nil)
	winners := map[uuid.UUID]float64{orphan.ID: 400}
	settings := &types.EstimateSetting{GeneralConditions: 1200}

	breakdown := ComposeEstimate([]*types.ScopeItem{orphan}, winners, settings)

	var general *DivisionGroup
	for i := range breakdown.Divisions {
		if breakdown.Divisions[i].DivisionName == "General Requirements" {
			general = &breakdown.Divisions[i]
		}
	}
	if general == nil {
		t.Fatalf("expected a General Requirements division")
	}
	if len(general.Lines) != 2 {
		t.Fatalf("expected the orphan item plus the general-conditions line, got %d lines", len(general.Lines))
	}
	foundGC := false
	for _, line := range general.Lines {
		if line.Description == "General conditions" && almostEqual(line.Amount, 1200) {
			foundGC = true
		}
	}
	if !foundGC {
		t.Fatalf("general conditions must surface under General Requirements")
	}
	// general conditions is a bottom-line add, not part of the subtotal
	if !almostEqual(breakdown.Subtotal, 400) {
		t.Fatalf("expected subtotal 400, got %v", breakdown.Subtotal)
	}
	if !almostEqual(breakdown.GrandTotal, 1600) {
		t.Fatalf("expected grand total 1600, got %v", breakdown.GrandTotal)
	}
}

func TestComposeEstimateDivisionOrdering(t *testing.T) {
	divC := &types.Division{ID: uuid.New(), Code: "26", Name: "Electrical"}
	divA := &types.Division{ID: uuid.New(), Code: "03", Name: "Concrete"}
	divB := &types.Division{ID: uuid.New(), Code: "09", Name: "Finishes"}

	items := []*types.ScopeItem{
		estimateItem("Wiring", divC, nil),
		estimateItem("Slabs", divA, nil),
		estimateItem("Paint", divB, nil),
	}
	winners := map[uuid.UUID]float64{}
	for _, item := range items {
		winners[item.ID] = 100
	}

	breakdown := ComposeEstimate(items, winners, nil)
	if len(breakdown.Divisions) != 3 {
		t.Fatalf("expected 3 divisions, got %d", len(breakdown.Divisions))
	}
	codes := []string{breakdown.Divisions[0].DivisionCode, breakdown.Divisions[1].DivisionCode, breakdown.Divisions[2].DivisionCode}
	if codes[0] != "03" || codes[1] != "09" || codes[2] != "26" {
		t.Fatalf("divisions must sort by code ascending, got %v", codes)
	}
}
