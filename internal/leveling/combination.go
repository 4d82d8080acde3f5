package leveling

import (
	"sort"

	"github.com/google/uuid"
)

const (
	// maxCombinations caps how many completing combinations are returned.
	maxCombinations = 5
	// maxPartialsForTriples bounds the cubic pass. Real packages see tens of
	// bidders at most; past this the triple search is skipped, not slowed.
	maxPartialsForTriples = 12
)

// FindCombinations enumerates pairs of partial bidders whose covered sets
// union to the full package, falling back to triples only when no pair
// completes it. Brute force on purpose: the search space is tiny and an
// exact enumeration keeps tie-breaks stable. The second return value reports
// that the triple pass was skipped because too many partial bidders were in
// play.
func FindCombinations(partials []BidderCoverage, fullSet []uuid.UUID) ([]Combination, bool) {
	if len(fullSet) == 0 || len(partials) < 2 {
		return nil, false
	}

	covers := make([]map[uuid.UUID]bool, len(partials))
	for i, p := range partials {
		covered := make(map[uuid.UUID]bool, len(p.CoveredItemIDs))
		for _, id := range p.CoveredItemIDs {
			covered[id] = true
		}
		covers[i] = covered
	}

	unionComplete := func(members ...int) bool {
		seen := 0
		for _, itemID := range fullSet {
			for _, m := range members {
				if covers[m][itemID] {
					seen++
					break
				}
			}
		}
		return seen == len(fullSet)
	}

	var found []Combination
	for i := 0; i < len(partials); i++ {
		for j := i + 1; j < len(partials); j++ {
			if !unionComplete(i, j) {
				continue
			}
			found = append(found, Combination{
				SubcontractorIDs: []uuid.UUID{partials[i].SubcontractorID, partials[j].SubcontractorID},
				Total:            partials[i].Total + partials[j].Total,
			})
		}
	}

	truncated := false
	if len(found) == 0 {
		if len(partials) > maxPartialsForTriples {
			truncated = true
		} else {
			for i := 0; i < len(partials); i++ {
				for j := i + 1; j < len(partials); j++ {
					for k := j + 1; k < len(partials); k++ {
						if !unionComplete(i, j, k) {
							continue
						}
						found = append(found, Combination{
							SubcontractorIDs: []uuid.UUID{partials[i].SubcontractorID, partials[j].SubcontractorID, partials[k].SubcontractorID},
							Total:            partials[i].Total + partials[j].Total + partials[k].Total,
						})
					}
				}
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Total < found[j].Total })
	if len(found) > maxCombinations {
		found = found[:maxCombinations]
	}
	return found, truncated
}
