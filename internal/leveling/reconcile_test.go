package leveling

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

func itemWithTrade(projectID uuid.UUID, desc, tradeName string) *types.ScopeItem {
	return &types.ScopeItem{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Description: desc,
		Division:    &types.Division{ID: uuid.New(), Name: tradeName},
	}
}

func invitedBid(subID uuid.UUID, item *types.ScopeItem) *types.ItemBid {
	return &types.ItemBid{
		ID:              uuid.New(),
		SubcontractorID: subID,
		ScopeItemID:     item.ID,
		Status:          types.ItemBidStatusInvited,
	}
}

func freeform(projectID, subID uuid.UUID, total *float64, entries ...types.LineEntry) *types.FreeformSubmission {
	return &types.FreeformSubmission{
		ID:              uuid.New(),
		ProjectID:       projectID,
		SubcontractorID: subID,
		TotalAmount:     total,
		LineEntries:     entries,
	}
}

func f(v float64) *float64 { return &v }

func TestReconcileStructuredMatching(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	electrical := itemWithTrade(projectID, "Branch circuit wiring throughout", "Electrical")
	plumbing := itemWithTrade(projectID, "Domestic water piping", "Plumbing")
	items := []*types.ScopeItem{electrical, plumbing}
	openBids := []*types.ItemBid{invitedBid(subID, electrical), invitedBid(subID, plumbing)}

	sub := freeform(projectID, subID, nil,
		types.LineEntry{Description: "water piping rough-in", TradeHint: "plumbing", Amount: 4200},
		types.LineEntry{Description: "circuit wiring", TradeHint: "elec", Amount: 8800},
	)

	result := Reconcile(sub, openBids, items, 1)
	if !result.Applied || result.Mode != ReconcileModeStructured {
		t.Fatalf("expected applied structured result, got %+v", result)
	}
	if len(result.UpdatedBids) != 2 {
		t.Fatalf("expected 2 updated bids, got %d", len(result.UpdatedBids))
	}

	byItem := make(map[uuid.UUID]*types.ItemBid)
	for _, bid := range result.UpdatedBids {
		if bid.Status != types.ItemBidStatusSubmitted {
			t.Fatalf("expected submitted status, got %q", bid.Status)
		}
		byItem[bid.ScopeItemID] = bid
	}
	if byItem[plumbing.ID] == nil || byItem[plumbing.ID].Amount != 4200 {
		t.Fatalf("plumbing entry mismatched: %+v", byItem[plumbing.ID])
	}
	if byItem[electrical.ID] == nil || byItem[electrical.ID].Amount != 8800 {
		t.Fatalf("electrical entry mismatched: %+v", byItem[electrical.ID])
	}
}

func TestReconcileNeverAssignsItemTwice(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	item := itemWithTrade(projectID, "Interior painting", "Finishes")
	other := itemWithTrade(projectID, "Stair railings", "Metals")
	items := []*types.ScopeItem{item, other}
	openBids := []*types.ItemBid{invitedBid(subID, item), invitedBid(subID, other)}

	// both entries point at the painting item; the second must spill over
	sub := freeform(projectID, subID, nil,
		types.LineEntry{Description: "interior painting first coat", TradeHint: "finishes", Amount: 1000},
		types.LineEntry{Description: "interior painting second coat", TradeHint: "finishes", Amount: 1500},
	)

	result := Reconcile(sub, openBids, items, 1)
	if len(result.UpdatedBids) != 2 {
		t.Fatalf("expected 2 updated bids, got %d", len(result.UpdatedBids))
	}
	seen := make(map[uuid.UUID]int)
	for _, bid := range result.UpdatedBids {
		seen[bid.ScopeItemID]++
	}
	for itemID, count := range seen {
		if count != 1 {
			t.Fatalf("item %s assigned %d times", itemID, count)
		}
	}
}

func TestReconcileTieBreaksByEncounterOrder(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	first := itemWithTrade(projectID, "Sitework allowance", "Sitework")
	second := itemWithTrade(projectID, "Sitework allowance", "Sitework")
	items := []*types.ScopeItem{first, second}
	openBids := []*types.ItemBid{invitedBid(subID, first), invitedBid(subID, second)}

	sub := freeform(projectID, subID, nil,
		types.LineEntry{Description: "sitework allowance", TradeHint: "sitework", Amount: 500},
	)

	result := Reconcile(sub, openBids, items, 1)
	if len(result.UpdatedBids) != 1 {
		t.Fatalf("expected 1 updated bid, got %d", len(result.UpdatedBids))
	}
	if result.UpdatedBids[0].ScopeItemID != first.ID {
		t.Fatalf("tie must resolve to the first open bid in input order")
	}
}

func TestReconcileSkipsZeroAmountEntries(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	item := itemWithTrade(projectID, "Roofing membrane", "Thermal and Moisture")
	openBids := []*types.ItemBid{invitedBid(subID, item)}

	sub := freeform(projectID, subID, nil,
		types.LineEntry{Description: "roofing membrane", TradeHint: "roofing", Amount: 0},
		types.LineEntry{Description: "roofing membrane install", TradeHint: "roofing", Amount: 7500},
	)

	result := Reconcile(sub, openBids, []*types.ScopeItem{item}, 1)
	if len(result.UpdatedBids) != 1 || result.UpdatedBids[0].Amount != 7500 {
		t.Fatalf("zero-amount entry must be skipped, got %+v", result.UpdatedBids)
	}
}

func TestReconcileLumpSum(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	var items []*types.ScopeItem
	var openBids []*types.ItemBid
	for _, desc := range []string{"Demo", "Framing", "Drywall", "Paint"} {
		item := itemWithTrade(projectID, desc, "General")
		items = append(items, item)
		openBids = append(openBids, invitedBid(subID, item))
	}

	sub := freeform(projectID, subID, f(20000))
	result := Reconcile(sub, openBids, items, 1)

	if !result.Applied || result.Mode != ReconcileModeLumpSum {
		t.Fatalf("expected applied lump-sum result, got %+v", result)
	}
	if len(result.UpdatedBids) != len(openBids) {
		t.Fatalf("expected all %d open bids updated, got %d", len(openBids), len(result.UpdatedBids))
	}

	full, zero := 0, 0
	for _, bid := range result.UpdatedBids {
		if bid.Status != types.ItemBidStatusSubmitted {
			t.Fatalf("expected submitted status on every bid, got %q", bid.Status)
		}
		switch bid.Amount {
		case 20000:
			full++
		case 0:
			zero++
			if !strings.Contains(bid.Note, "lump sum") {
				t.Fatalf("zeroed bid needs a lump-sum note, got %q", bid.Note)
			}
		default:
			t.Fatalf("unexpected amount %v", bid.Amount)
		}
	}
	if full != 1 || zero != len(openBids)-1 {
		t.Fatalf("expected exactly one full amount and %d zeros, got %d/%d", len(openBids)-1, full, zero)
	}
	if result.UpdatedBids[0].Amount != 20000 {
		t.Fatalf("full amount must land on the first open bid in input order")
	}
}

func TestReconcileMultiPackageLumpSumRoutesToClarification(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	item := itemWithTrade(projectID, "Electrical rough-in", "Electrical")
	openBids := []*types.ItemBid{invitedBid(subID, item)}

	sub := freeform(projectID, subID, f(50000))
	sub.MultiPackageLumpSum = true

	result := Reconcile(sub, openBids, []*types.ScopeItem{item}, 2)
	if !result.NeedsClarification {
		t.Fatalf("expected clarification trigger, got %+v", result)
	}
	if result.Applied || len(result.UpdatedBids) != 0 {
		t.Fatalf("clarification trigger must not mutate bids: %+v", result)
	}
}

func TestReconcileNoUsableAmounts(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()
	item := itemWithTrade(projectID, "Masonry", "Masonry")

	cases := []struct {
		name string
		sub  *types.FreeformSubmission
		open []*types.ItemBid
	}{
		{
			name: "no_amounts_no_total",
			sub:  freeform(projectID, subID, nil, types.LineEntry{Description: "masonry", Amount: 0}),
			open: []*types.ItemBid{invitedBid(subID, item)},
		},
		{
			name: "nothing_open",
			sub:  freeform(projectID, subID, f(100)),
			open: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Reconcile(tc.sub, tc.open, []*types.ScopeItem{item}, 1)
			if result.Applied || len(result.UpdatedBids) != 0 {
				t.Fatalf("expected no-op, got %+v", result)
			}
			if result.Diagnostic == "" {
				t.Fatalf("no-op result must carry a diagnostic reason")
			}
		})
	}
}
