package leveling

import (
	"sort"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

// BidderCoverage summarizes one subcontractor's position on one package.
type BidderCoverage struct {
	SubcontractorID uuid.UUID               `json:"subcontractor_id"`
	CoveredItemIDs  []uuid.UUID             `json:"covered_item_ids"`
	ItemAmounts     map[uuid.UUID]float64   `json:"item_amounts,omitempty"`
	Total           float64                 `json:"total"`
	Complete        bool                    `json:"complete"`
	CoveragePercent float64                 `json:"coverage_percent"`
}

// Combination is a set of partial bidders whose coverage unions to the whole
// package.
type Combination struct {
	SubcontractorIDs []uuid.UUID `json:"subcontractor_ids"`
	Total            float64     `json:"total"`
}

// CoverageResult is the leveled view of one package: who can deliver it
// alone, and which combinations of partial bidders could.
type CoverageResult struct {
	PackageID    uuid.UUID        `json:"package_id"`
	ItemCount    int              `json:"item_count"`
	Bidders      []BidderCoverage `json:"bidders"`
	Combinations []Combination    `json:"combinations"`
	Truncated    bool             `json:"truncated"`
}

// AnalyzeCoverage groups the qualifying bids on a package by subcontractor
// and computes covered sets, totals and completeness. Item bids must be
// submitted; package bids must be approved and are expanded into even
// per-item shares (amount / member count). A real item bid always beats the
// virtual share for the same bidder and item.
func AnalyzeCoverage(pkg *types.ScopePackage, items []*types.ScopeItem, itemBids []*types.ItemBid, packageBids []*types.PackageBid) CoverageResult {
	result := CoverageResult{}
	if pkg != nil {
		result.PackageID = pkg.ID
	}
	if len(items) == 0 {
		return result
	}
	result.ItemCount = len(items)

	memberSet := make(map[uuid.UUID]bool, len(items))
	memberOrder := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item == nil || memberSet[item.ID] {
			continue
		}
		memberSet[item.ID] = true
		memberOrder = append(memberOrder, item.ID)
	}

	// amounts[bidder][item], real bids layered over virtual shares.
	amounts := make(map[uuid.UUID]map[uuid.UUID]float64)
	real := make(map[uuid.UUID]map[uuid.UUID]bool)
	bidderOrder := make([]uuid.UUID, 0)

	touch := func(subID uuid.UUID) map[uuid.UUID]float64 {
		covered, ok := amounts[subID]
		if !ok {
			covered = make(map[uuid.UUID]float64)
			amounts[subID] = covered
			real[subID] = make(map[uuid.UUID]bool)
			bidderOrder = append(bidderOrder, subID)
		}
		return covered
	}

	for _, bid := range itemBids {
		if bid == nil || bid.Status != types.ItemBidStatusSubmitted {
			continue
		}
		if !memberSet[bid.ScopeItemID] {
			continue
		}
		covered := touch(bid.SubcontractorID)
		covered[bid.ScopeItemID] = bid.Amount
		real[bid.SubcontractorID][bid.ScopeItemID] = true
	}

	share := 0.0
	if len(memberOrder) > 0 {
		share = 1.0 / float64(len(memberOrder))
	}
	for _, bid := range packageBids {
		if bid == nil || bid.Status != types.PackageBidStatusApproved {
			continue
		}
		if pkg == nil || bid.ScopePackageID != pkg.ID {
			continue
		}
		covered := touch(bid.SubcontractorID)
		perItem := bid.Amount * share
		for _, itemID := range memberOrder {
			if real[bid.SubcontractorID][itemID] {
				continue
			}
			covered[itemID] = perItem
		}
	}

	for _, subID := range bidderOrder {
		covered := amounts[subID]
		summary := BidderCoverage{SubcontractorID: subID, ItemAmounts: covered}
		for _, itemID := range memberOrder {
			amount, ok := covered[itemID]
			if !ok {
				continue
			}
			summary.CoveredItemIDs = append(summary.CoveredItemIDs, itemID)
			summary.Total += amount
		}
		summary.Complete = len(summary.CoveredItemIDs) == len(memberOrder)
		summary.CoveragePercent = float64(len(summary.CoveredItemIDs)) / float64(len(memberOrder)) * 100
		result.Bidders = append(result.Bidders, summary)
	}

	sort.SliceStable(result.Bidders, func(i, j int) bool {
		a, b := result.Bidders[i], result.Bidders[j]
		if a.Complete != b.Complete {
			return a.Complete
		}
		if a.Complete {
			return a.Total < b.Total
		}
		if a.CoveragePercent != b.CoveragePercent {
			return a.CoveragePercent > b.CoveragePercent
		}
		return a.Total < b.Total
	})

	partials := make([]BidderCoverage, 0)
	for _, summary := range result.Bidders {
		if !summary.Complete {
			partials = append(partials, summary)
		}
	}
	result.Combinations, result.Truncated = FindCombinations(partials, memberOrder)

	return result
}
