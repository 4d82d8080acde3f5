package leveling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/plumbline/plumbline-backend/internal/types"
)

func TestBuildClarificationCreatesPending(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	electrical := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Electrical"}
	fireAlarm := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Fire Alarm"}

	sub := freeform(projectID, subID, f(50000))
	sub.MultiPackageLumpSum = true
	bidder := &types.Subcontractor{ID: subID, CompanyName: "Volt Bros", ContactEmail: "bids@voltbros.example"}

	outcome := BuildClarification(sub, bidder, []*types.ScopePackage{electrical, fireAlarm}, nil)
	if outcome.Merged {
		t.Fatalf("fresh request must not be a merge")
	}
	request := outcome.Request
	if request == nil || request.Status != types.ClarificationStatusPending {
		t.Fatalf("expected pending request, got %+v", request)
	}
	if request.ProjectID != projectID || request.SubcontractorID != subID {
		t.Fatalf("request keyed wrong: %+v", request)
	}
	if request.LumpSumAmount != 50000 {
		t.Fatalf("expected amount 50000, got %v", request.LumpSumAmount)
	}
	if len(request.RequestedPackages) != 2 || request.RequestedPackages[0] != "Electrical" || request.RequestedPackages[1] != "Fire Alarm" {
		t.Fatalf("expected requested packages [Electrical, Fire Alarm], got %v", request.RequestedPackages)
	}
	if outcome.Intent == nil || outcome.Intent.RecipientEmail != "bids@voltbros.example" {
		t.Fatalf("expected send intent for the bidder, got %+v", outcome.Intent)
	}
}

func TestBuildClarificationMergesSecondLumpSum(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	electrical := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Electrical"}
	pending := &types.ClarificationRequest{
		ID:              uuid.New(),
		ProjectID:       projectID,
		SubcontractorID: subID,
		LumpSumAmount:   50000,
		Status:          types.ClarificationStatusPending,
	}

	sub := freeform(projectID, subID, f(47500))
	sub.MultiPackageLumpSum = true

	outcome := BuildClarification(sub, nil, []*types.ScopePackage{electrical}, pending)
	if !outcome.Merged {
		t.Fatalf("expected merge into the pending request")
	}
	if outcome.Request != pending {
		t.Fatalf("merge must keep the pending row's identity")
	}
	if pending.LumpSumAmount != 47500 {
		t.Fatalf("latest lump sum must replace the stale amount, got %v", pending.LumpSumAmount)
	}
	if len(pending.SupersededAmounts) != 1 || pending.SupersededAmounts[0] != 50000 {
		t.Fatalf("superseded amount must be kept for audit, got %v", pending.SupersededAmounts)
	}
	if outcome.Intent != nil {
		t.Fatalf("merge must not emit a second send intent")
	}
}

func TestResolveClarification(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	electrical := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Electrical"}
	fireAlarm := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Fire Alarm"}

	pending := &types.ClarificationRequest{
		ID:              uuid.New(),
		ProjectID:       projectID,
		SubcontractorID: subID,
		LumpSumAmount:   50000,
		Status:          types.ClarificationStatusPending,
	}

	amounts := map[string]float64{"Electrical": 32000, "Fire Alarm": 18000}
	now := time.Now()
	resolution := ResolveClarification(pending, amounts, []*types.ScopePackage{electrical, fireAlarm}, now)

	if pending.Status != types.ClarificationStatusResolved {
		t.Fatalf("expected resolved status, got %q", pending.Status)
	}
	if pending.ResolvedAt == nil || !pending.ResolvedAt.Equal(now) {
		t.Fatalf("expected resolved timestamp set")
	}
	stored := pending.PackageAmounts.Data()
	if stored["Electrical"] != 32000 || stored["Fire Alarm"] != 18000 {
		t.Fatalf("expected stored amount map, got %v", stored)
	}

	if len(resolution.PackageBids) != 2 {
		t.Fatalf("expected 2 package bids, got %d", len(resolution.PackageBids))
	}
	for _, bid := range resolution.PackageBids {
		if bid.Status != types.PackageBidStatusApproved {
			t.Fatalf("expected approved package bid, got %q", bid.Status)
		}
		if bid.Provenance != types.PackageBidProvenanceClarification {
			t.Fatalf("expected clarification provenance, got %q", bid.Provenance)
		}
		if bid.SubcontractorID != subID {
			t.Fatalf("package bid keyed to wrong subcontractor")
		}
	}
	if resolution.PackageBids[0].ScopePackageID != electrical.ID || resolution.PackageBids[0].Amount != 32000 {
		t.Fatalf("expected electrical bid first at 32000, got %+v", resolution.PackageBids[0])
	}
	if resolution.PackageBids[1].ScopePackageID != fireAlarm.ID || resolution.PackageBids[1].Amount != 18000 {
		t.Fatalf("expected fire alarm bid at 18000, got %+v", resolution.PackageBids[1])
	}
}

func TestResolveClarificationIgnoresUnnamedPackages(t *testing.T) {
	projectID := uuid.New()
	subID := uuid.New()

	electrical := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Electrical"}
	plumbing := &types.ScopePackage{ID: uuid.New(), ProjectID: projectID, Name: "Plumbing"}

	pending := &types.ClarificationRequest{
		ID:              uuid.New(),
		ProjectID:       projectID,
		SubcontractorID: subID,
		Status:          types.ClarificationStatusPending,
	}

	resolution := ResolveClarification(pending, map[string]float64{"Electrical": 1000}, []*types.ScopePackage{electrical, plumbing}, time.Now())
	if len(resolution.PackageBids) != 1 || resolution.PackageBids[0].ScopePackageID != electrical.ID {
		t.Fatalf("only named packages may produce bids, got %+v", resolution.PackageBids)
	}
}
