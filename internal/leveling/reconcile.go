package leveling

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

const (
	ReconcileModeStructured = "structured"
	ReconcileModeLumpSum    = "lump_sum"
	ReconcileModeNone       = "none"
)

// ReconcileResult is the set of proposed writes from one freeform
// submission: item bids to update, package bids to create, or a
// clarification trigger. Nothing is persisted here.
type ReconcileResult struct {
	Mode               string
	Applied            bool
	UpdatedBids        []*types.ItemBid
	NeedsClarification bool
	Diagnostic         string
}

// Reconcile matches a freeform submission against the subcontractor's open
// (invited) item bids. Structured mode assigns each priced line entry to its
// best-scoring open item; lump-sum mode parks the whole total on the first
// open item and zeroes the rest so no bid record is silently lost. A flagged
// multi-package lump sum is never applied — it routes to the clarification
// workflow instead.
func Reconcile(sub *types.FreeformSubmission, openBids []*types.ItemBid, items []*types.ScopeItem, invitedPackageCount int) ReconcileResult {
	if sub == nil {
		return ReconcileResult{Mode: ReconcileModeNone, Diagnostic: "no submission"}
	}

	usable := make([]types.LineEntry, 0, len(sub.LineEntries))
	for _, entry := range sub.LineEntries {
		if entry.Amount != 0 {
			usable = append(usable, entry)
		}
	}

	hasTotal := sub.TotalAmount != nil && *sub.TotalAmount != 0

	if len(usable) == 0 && hasTotal && sub.MultiPackageLumpSum && invitedPackageCount > 1 {
		return ReconcileResult{
			Mode:               ReconcileModeNone,
			NeedsClarification: true,
			Diagnostic:         "lump sum likely covers multiple packages without breakdown",
		}
	}

	if len(openBids) == 0 {
		return ReconcileResult{Mode: ReconcileModeNone, Diagnostic: "no open invited bids to match"}
	}

	if len(usable) > 0 {
		return reconcileStructured(usable, openBids, items)
	}
	if hasTotal {
		return reconcileLumpSum(*sub.TotalAmount, openBids, items)
	}

	return ReconcileResult{Mode: ReconcileModeNone, Diagnostic: "no usable line amounts and no total; needs manual review"}
}

func reconcileStructured(entries []types.LineEntry, openBids []*types.ItemBid, items []*types.ScopeItem) ReconcileResult {
	itemByID := make(map[uuid.UUID]*types.ScopeItem, len(items))
	for _, item := range items {
		if item != nil {
			itemByID[item.ID] = item
		}
	}

	result := ReconcileResult{Mode: ReconcileModeStructured}
	matched := make(map[int]bool, len(openBids))

	for _, entry := range entries {
		bestIdx := -1
		bestScore := -1
		for idx, bid := range openBids {
			if matched[idx] || bid == nil {
				continue
			}
			score := matchScore(entry, itemByID[bid.ScopeItemID])
			if score > bestScore {
				bestScore = score
				bestIdx = idx
			}
		}
		if bestIdx < 0 {
			continue
		}
		matched[bestIdx] = true
		bid := openBids[bestIdx]
		bid.Amount = entry.Amount
		bid.Status = types.ItemBidStatusSubmitted
		result.UpdatedBids = append(result.UpdatedBids, bid)
	}

	if len(result.UpdatedBids) == 0 {
		return ReconcileResult{Mode: ReconcileModeNone, Diagnostic: "no line entries could be matched"}
	}
	result.Applied = true
	return result
}

func reconcileLumpSum(total float64, openBids []*types.ItemBid, items []*types.ScopeItem) ReconcileResult {
	itemByID := make(map[uuid.UUID]*types.ScopeItem, len(items))
	for _, item := range items {
		if item != nil {
			itemByID[item.ID] = item
		}
	}

	result := ReconcileResult{Mode: ReconcileModeLumpSum, Applied: true}
	carrierDesc := ""
	for idx, bid := range openBids {
		if bid == nil {
			continue
		}
		bid.Status = types.ItemBidStatusSubmitted
		if idx == 0 {
			bid.Amount = total
			if item := itemByID[bid.ScopeItemID]; item != nil {
				carrierDesc = item.Description
			}
			bid.Note = "Lump sum covering all invited items"
		} else {
			bid.Amount = 0
			bid.Note = fmt.Sprintf("Included in lump sum carried by %q", carrierDesc)
		}
		result.UpdatedBids = append(result.UpdatedBids, bid)
	}
	return result
}

// matchScore ranks an extracted line entry against a scope item: 10 for
// bidirectional substring containment between trade hint and trade name,
// plus one per description word (longer than 3 chars) contained either way
// in the item description. Case-insensitive, token/substring only.
func matchScore(entry types.LineEntry, item *types.ScopeItem) int {
	if item == nil {
		return 0
	}
	score := 0

	hint := strings.ToLower(strings.TrimSpace(entry.TradeHint))
	trade := ""
	if item.Division != nil {
		trade = strings.ToLower(strings.TrimSpace(item.Division.Name))
	}
	if hint != "" && trade != "" {
		if strings.Contains(trade, hint) || strings.Contains(hint, trade) {
			score += 10
		}
	}

	itemDesc := strings.ToLower(item.Description)
	if itemDesc == "" {
		return score
	}
	for _, word := range strings.Fields(strings.ToLower(entry.Description)) {
		if len(word) <= 3 {
			continue
		}
		if strings.Contains(itemDesc, word) || strings.Contains(word, itemDesc) {
			score++
		}
	}
	return score
}
