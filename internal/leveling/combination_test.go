package leveling

import (
	"testing"

	"github.com/google/uuid"
)

func coverage(total float64, itemIDs ...uuid.UUID) BidderCoverage {
	return BidderCoverage{
		SubcontractorID: uuid.New(),
		CoveredItemIDs:  itemIDs,
		Total:           total,
	}
}

func TestFindCombinationsExactUnion(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	fullSet := []uuid.UUID{a, b, c}

	partials := []BidderCoverage{
		coverage(100, a, b),
		coverage(80, c),
		coverage(90, b), // overlaps the first bidder, never completes
	}

	found, truncated := FindCombinations(partials, fullSet)
	if truncated {
		t.Fatalf("unexpected truncation")
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly 1 combination, got %d", len(found))
	}
	if found[0].Total != 180 {
		t.Fatalf("expected total 180, got %v", found[0].Total)
	}

	// every returned combination must union to the full set exactly
	covered := make(map[uuid.UUID]bool)
	for _, subID := range found[0].SubcontractorIDs {
		for _, p := range partials {
			if p.SubcontractorID != subID {
				continue
			}
			for _, id := range p.CoveredItemIDs {
				covered[id] = true
			}
		}
	}
	for _, id := range fullSet {
		if !covered[id] {
			t.Fatalf("combination does not cover item %s", id)
		}
	}
}

func TestFindCombinationsPairsBeforeTriples(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	fullSet := []uuid.UUID{a, b}

	partials := []BidderCoverage{
		coverage(10, a),
		coverage(10, b),
		coverage(5, a), // cheap third wheel: pair still must win
	}

	found, _ := FindCombinations(partials, fullSet)
	for _, combo := range found {
		if len(combo.SubcontractorIDs) != 2 {
			t.Fatalf("triple returned while a pair completes the set: %+v", combo)
		}
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 completing pairs, got %d", len(found))
	}
	if found[0].Total != 15 {
		t.Fatalf("expected cheapest pair (15) first, got %v", found[0].Total)
	}
}

func TestFindCombinationsTripleFallback(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	fullSet := []uuid.UUID{a, b, c}

	partials := []BidderCoverage{
		coverage(10, a),
		coverage(20, b),
		coverage(30, c),
	}

	found, truncated := FindCombinations(partials, fullSet)
	if truncated {
		t.Fatalf("unexpected truncation")
	}
	if len(found) != 1 || len(found[0].SubcontractorIDs) != 3 {
		t.Fatalf("expected one completing triple, got %+v", found)
	}
	if found[0].Total != 60 {
		t.Fatalf("expected triple total 60, got %v", found[0].Total)
	}
}

func TestFindCombinationsCapsAtFive(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	fullSet := []uuid.UUID{a, b}

	var partials []BidderCoverage
	for i := 0; i < 4; i++ {
		partials = append(partials, coverage(float64(10+i), a))
		partials = append(partials, coverage(float64(20+i), b))
	}

	found, _ := FindCombinations(partials, fullSet)
	if len(found) != maxCombinations {
		t.Fatalf("expected cap of %d combinations, got %d", maxCombinations, len(found))
	}
	for i := 1; i < len(found); i++ {
		if found[i].Total < found[i-1].Total {
			t.Fatalf("combinations not sorted ascending: %v before %v", found[i-1].Total, found[i].Total)
		}
	}
}

func TestFindCombinationsTripleGuard(t *testing.T) {
	itemIDs := make([]uuid.UUID, 13)
	for i := range itemIDs {
		itemIDs[i] = uuid.New()
	}

	// 13 partials, each covering a single distinct item: no pair (or triple)
	// can complete, and the partial count exceeds the triple-search bound.
	var partials []BidderCoverage
	for i := 0; i < 13; i++ {
		partials = append(partials, coverage(float64(i+1), itemIDs[i]))
	}

	found, truncated := FindCombinations(partials, itemIDs)
	if len(found) != 0 {
		t.Fatalf("expected no combinations, got %d", len(found))
	}
	if !truncated {
		t.Fatalf("expected the skipped triple search to be reported")
	}
}

func TestFindCombinationsDegenerateInputs(t *testing.T) {
	cases := []struct {
		name     string
		partials []BidderCoverage
		fullSet  []uuid.UUID
	}{
		{name: "no_full_set", partials: []BidderCoverage{coverage(1)}, fullSet: nil},
		{name: "single_partial", partials: []BidderCoverage{coverage(1, uuid.New())}, fullSet: []uuid.UUID{uuid.New()}},
		{name: "no_partials", partials: nil, fullSet: []uuid.UUID{uuid.New()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found, truncated := FindCombinations(tc.partials, tc.fullSet)
			if len(found) != 0 || truncated {
				t.Fatalf("expected empty result, got %+v truncated=%v", found, truncated)
			}
		})
	}
}
