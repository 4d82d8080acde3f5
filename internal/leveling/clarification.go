package leveling

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/plumbline/plumbline-backend/internal/types"
)

// ClarificationIntent is the outbound "send" request for the delivery
// collaborator. The engine never emails anyone itself.
type ClarificationIntent struct {
	RecipientEmail string   `json:"recipient_email"`
	Subject        string   `json:"subject"`
	PackageNames   []string `json:"package_names"`
	LumpSumAmount  float64  `json:"lump_sum_amount"`
}

// ClarificationOutcome carries the request row to persist plus the optional
// send intent.
type ClarificationOutcome struct {
	Request *types.ClarificationRequest
	Intent  *ClarificationIntent
	Merged  bool
}

// ClarificationResolution carries the resolved request plus the approved
// package bids derived from the breakdown.
type ClarificationResolution struct {
	Request     *types.ClarificationRequest
	PackageBids []*types.PackageBid
}

// BuildClarification advances the none→pending transition. With no pending
// request it proposes a new one plus a send intent. With one pending it
// merge-replaces: the latest lump sum supersedes the stale amount (which is
// kept for audit), the requested package set is recomputed, and no second
// row or second email is produced.
func BuildClarification(sub *types.FreeformSubmission, bidder *types.Subcontractor, invited []*types.ScopePackage, pending *types.ClarificationRequest) ClarificationOutcome {
	amount := 0.0
	if sub != nil && sub.TotalAmount != nil {
		amount = *sub.TotalAmount
	}
	names := make([]string, 0, len(invited))
	for _, pkg := range invited {
		if pkg != nil {
			names = append(names, pkg.Name)
		}
	}

	if pending != nil {
		pending.SupersededAmounts = append(pending.SupersededAmounts, pending.LumpSumAmount)
		pending.LumpSumAmount = amount
		pending.RequestedPackages = datatypes.NewJSONSlice(names)
		return ClarificationOutcome{Request: pending, Merged: true}
	}

	request := &types.ClarificationRequest{
		RequestedPackages: datatypes.NewJSONSlice(names),
		LumpSumAmount:     amount,
		Status:            types.ClarificationStatusPending,
	}
	if sub != nil {
		request.ProjectID = sub.ProjectID
		request.SubcontractorID = sub.SubcontractorID
	}

	intent := &ClarificationIntent{
		Subject:       fmt.Sprintf("Breakdown needed for %d scope packages", len(names)),
		PackageNames:  names,
		LumpSumAmount: amount,
	}
	if bidder != nil {
		intent.RecipientEmail = bidder.ContactEmail
	}

	return ClarificationOutcome{Request: request, Intent: intent}
}

// ResolveClarification advances pending→resolved: each requested package
// with an amount in the breakdown becomes an approved package bid with
// clarification provenance. Iteration follows the invited slice, never map
// order.
func ResolveClarification(pending *types.ClarificationRequest, amounts map[string]float64, invited []*types.ScopePackage, now time.Time) ClarificationResolution {
	resolution := ClarificationResolution{Request: pending}
	if pending == nil || len(amounts) == 0 {
		return resolution
	}

	for _, pkg := range invited {
		if pkg == nil {
			continue
		}
		amount, ok := amounts[pkg.Name]
		if !ok {
			continue
		}
		resolution.PackageBids = append(resolution.PackageBids, &types.PackageBid{
			SubcontractorID: pending.SubcontractorID,
			ScopePackageID:  pkg.ID,
			Amount:          amount,
			Status:          types.PackageBidStatusApproved,
			Provenance:      types.PackageBidProvenanceClarification,
			Note:            "Per-package breakdown from clarification response",
		})
	}

	pending.Status = types.ClarificationStatusResolved
	pending.PackageAmounts = datatypes.NewJSONType(amounts)
	pending.ResolvedAt = &now

	return resolution
}
