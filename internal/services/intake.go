package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumbline/plumbline-backend/internal/leveling"
	"github.com/plumbline/plumbline-backend/internal/logger"
	"github.com/plumbline/plumbline-backend/internal/repos"
	"github.com/plumbline/plumbline-backend/internal/types"
)

// IntakeOutcome reports what processing a freeform submission produced:
// applied bid updates, a clarification request, or a needs-review state.
type IntakeOutcome struct {
	Mode               string                         `json:"mode"`
	Applied            bool                           `json:"applied"`
	UpdatedBids        int                            `json:"updated_bids"`
	NeedsClarification bool                           `json:"needs_clarification"`
	Diagnostic         string                         `json:"diagnostic,omitempty"`
	Clarification      *types.ClarificationRequest    `json:"clarification,omitempty"`
	Intent             *leveling.ClarificationIntent  `json:"intent,omitempty"`
	PackageBids        []*types.PackageBid            `json:"package_bids,omitempty"`
}

type IntakeService interface {
	RecordFreeform(ctx context.Context, row *types.FreeformSubmission) (*types.FreeformSubmission, error)
	ProcessFreeform(ctx context.Context, submissionID uuid.UUID) (*IntakeOutcome, error)
	ResolveClarification(ctx context.Context, requestID uuid.UUID, amounts map[string]float64) (*types.ClarificationRequest, error)
	ListClarifications(ctx context.Context, projectID uuid.UUID) ([]*types.ClarificationRequest, error)
}

type intakeService struct {
	db           *gorm.DB
	log          *logger.Logger
	freeformRepo repos.FreeformSubmissionRepo
	itemRepo     repos.ScopeItemRepo
	packageRepo  repos.ScopePackageRepo
	itemBidRepo  repos.ItemBidRepo
	pkgBidRepo   repos.PackageBidRepo
	clarRepo     repos.ClarificationRequestRepo
	subRepo      repos.SubcontractorRepo
	notifier     LevelingNotifier

	// serializes clarification writes per (project, subcontractor) pair
	mu       sync.Mutex
	pairLock map[string]*sync.Mutex
}

func NewIntakeService(db *gorm.DB, log *logger.Logger, freeformRepo repos.FreeformSubmissionRepo, itemRepo repos.ScopeItemRepo, packageRepo repos.ScopePackageRepo, itemBidRepo repos.ItemBidRepo, pkgBidRepo repos.PackageBidRepo, clarRepo repos.ClarificationRequestRepo, subRepo repos.SubcontractorRepo, notifier LevelingNotifier) IntakeService {
	return &intakeService{
		db:           db,
		log:          log.With("service", "IntakeService"),
		freeformRepo: freeformRepo,
		itemRepo:     itemRepo,
		packageRepo:  packageRepo,
		itemBidRepo:  itemBidRepo,
		pkgBidRepo:   pkgBidRepo,
		clarRepo:     clarRepo,
		subRepo:      subRepo,
		notifier:     notifier,
		pairLock:     make(map[string]*sync.Mutex),
	}
}

func (s *intakeService) lockFor(projectID, subID uuid.UUID) *sync.Mutex {
	key := projectID.String() + ":" + subID.String()
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.pairLock[key]
	if !ok {
		lock = &sync.Mutex{}
		s.pairLock[key] = lock
	}
	return lock
}

func (s *intakeService) RecordFreeform(ctx context.Context, row *types.FreeformSubmission) (*types.FreeformSubmission, error) {
	if row == nil {
		return nil, fmt.Errorf("submission required")
	}
	if row.ProjectID == uuid.Nil || row.SubcontractorID == uuid.Nil {
		return nil, fmt.Errorf("project and subcontractor are required")
	}
	created, err := s.freeformRepo.Create(ctx, nil, []*types.FreeformSubmission{row})
	if err != nil {
		return nil, fmt.Errorf("create freeform submission: %w", err)
	}
	return created[0], nil
}

// ProcessFreeform reconciles one recorded freeform submission against the
// subcontractor's open bids. If a clarification is pending for the pair and
// the submission reads like a per-package breakdown, it resolves the
// clarification instead.
func (s *intakeService) ProcessFreeform(ctx context.Context, submissionID uuid.UUID) (*IntakeOutcome, error) {
	sub, err := s.freeformRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load freeform submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("freeform submission %s not found", submissionID)
	}

	openBids, err := s.itemBidRepo.GetBySubAndProject(ctx, nil, sub.SubcontractorID, sub.ProjectID, []string{types.ItemBidStatusInvited})
	if err != nil {
		return nil, fmt.Errorf("load open bids: %w", err)
	}
	items, err := s.itemRepo.GetByProjectID(ctx, nil, sub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	packages, err := s.packageRepo.GetByProjectID(ctx, nil, sub.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	invited := invitedPackages(packages, openBids)

	pending, err := s.clarRepo.GetPending(ctx, nil, sub.ProjectID, sub.SubcontractorID)
	if err != nil {
		return nil, fmt.Errorf("load pending clarification: %w", err)
	}
	if pending != nil {
		amounts := packageAmountsFromEntries(sub.LineEntries, pending.RequestedPackages)
		if len(amounts) > 0 {
			return s.resolvePending(ctx, sub, pending, amounts, packages)
		}
	}

	result := leveling.Reconcile(sub, openBids, items, len(invited))

	if result.NeedsClarification {
		return s.requestClarification(ctx, sub, invited, result)
	}

	if !result.Applied {
		if err := s.freeformRepo.UpdateState(ctx, nil, sub.ID, types.FreeformStateNeedsReview, result.Diagnostic); err != nil {
			return nil, fmt.Errorf("update submission state: %w", err)
		}
		return &IntakeOutcome{Mode: result.Mode, Diagnostic: result.Diagnostic}, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.itemBidRepo.Save(ctx, tx, result.UpdatedBids); err != nil {
			return fmt.Errorf("save reconciled bids: %w", err)
		}
		return s.freeformRepo.UpdateState(ctx, tx, sub.ID, types.FreeformStateApplied, "")
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BidsReconciled(sub.ProjectID, sub.SubcontractorID, len(result.UpdatedBids))
	s.notifier.CoverageRefreshed(sub.ProjectID)
	s.log.Info("Freeform submission reconciled", "submissionID", sub.ID, "mode", result.Mode, "updatedBids", len(result.UpdatedBids))

	return &IntakeOutcome{
		Mode:        result.Mode,
		Applied:     true,
		UpdatedBids: len(result.UpdatedBids),
	}, nil
}

func (s *intakeService) requestClarification(ctx context.Context, sub *types.FreeformSubmission, invited []*types.ScopePackage, result leveling.ReconcileResult) (*IntakeOutcome, error) {
	lock := s.lockFor(sub.ProjectID, sub.SubcontractorID)
	lock.Lock()
	defer lock.Unlock()

	bidder, err := s.subRepo.GetByID(ctx, nil, sub.SubcontractorID)
	if err != nil {
		return nil, fmt.Errorf("load subcontractor: %w", err)
	}

	pending, err := s.clarRepo.GetPending(ctx, nil, sub.ProjectID, sub.SubcontractorID)
	if err != nil {
		return nil, fmt.Errorf("load pending clarification: %w", err)
	}

	outcome := leveling.BuildClarification(sub, bidder, invited, pending)
	if outcome.Merged {
		if err := s.clarRepo.Save(ctx, nil, outcome.Request); err != nil {
			return nil, fmt.Errorf("merge clarification: %w", err)
		}
	} else {
		err := s.clarRepo.CreatePendingIfAbsent(ctx, nil, outcome.Request)
		if errors.Is(err, repos.ErrPendingExists) {
			// lost a race with another instance; re-read and merge
			pending, rerr := s.clarRepo.GetPending(ctx, nil, sub.ProjectID, sub.SubcontractorID)
			if rerr != nil {
				return nil, fmt.Errorf("reload pending clarification: %w", rerr)
			}
			outcome = leveling.BuildClarification(sub, bidder, invited, pending)
			if err := s.clarRepo.Save(ctx, nil, outcome.Request); err != nil {
				return nil, fmt.Errorf("merge clarification after conflict: %w", err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("create clarification: %w", err)
		}
	}

	if err := s.freeformRepo.UpdateState(ctx, nil, sub.ID, types.FreeformStateClarifying, result.Diagnostic); err != nil {
		return nil, fmt.Errorf("update submission state: %w", err)
	}

	s.notifier.ClarificationPending(sub.ProjectID, sub.SubcontractorID, outcome.Request.RequestedPackages, outcome.Request.LumpSumAmount)
	s.log.Info("Clarification requested", "projectID", sub.ProjectID, "subcontractorID", sub.SubcontractorID, "merged", outcome.Merged)

	return &IntakeOutcome{
		Mode:               result.Mode,
		NeedsClarification: true,
		Diagnostic:         result.Diagnostic,
		Clarification:      outcome.Request,
		Intent:             outcome.Intent,
	}, nil
}

func (s *intakeService) resolvePending(ctx context.Context, sub *types.FreeformSubmission, pending *types.ClarificationRequest, amounts map[string]float64, packages []*types.ScopePackage) (*IntakeOutcome, error) {
	lock := s.lockFor(pending.ProjectID, pending.SubcontractorID)
	lock.Lock()
	defer lock.Unlock()

	resolution := leveling.ResolveClarification(pending, amounts, packages, time.Now().UTC())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.pkgBidRepo.Create(ctx, tx, resolution.PackageBids); err != nil {
			return fmt.Errorf("create package bids: %w", err)
		}
		if err := s.clarRepo.Save(ctx, tx, resolution.Request); err != nil {
			return fmt.Errorf("save resolved clarification: %w", err)
		}
		if sub != nil {
			return s.freeformRepo.UpdateState(ctx, tx, sub.ID, types.FreeformStateApplied, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ClarificationResolved(pending.ProjectID, pending.SubcontractorID, amounts)
	s.notifier.CoverageRefreshed(pending.ProjectID)
	s.log.Info("Clarification resolved", "projectID", pending.ProjectID, "subcontractorID", pending.SubcontractorID, "packages", len(resolution.PackageBids))

	return &IntakeOutcome{
		Mode:          "clarification_response",
		Applied:       true,
		Clarification: resolution.Request,
		PackageBids:   resolution.PackageBids,
	}, nil
}

// ResolveClarification applies an explicitly supplied per-package breakdown,
// e.g. one typed in by the GC from a phone call.
func (s *intakeService) ResolveClarification(ctx context.Context, requestID uuid.UUID, amounts map[string]float64) (*types.ClarificationRequest, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("per-package amounts required")
	}
	request, err := s.clarRepo.GetByID(ctx, nil, requestID)
	if err != nil {
		return nil, fmt.Errorf("load clarification: %w", err)
	}
	if request.Status != types.ClarificationStatusPending {
		return nil, fmt.Errorf("clarification %s is not pending", requestID)
	}
	packages, err := s.packageRepo.GetByProjectID(ctx, nil, request.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	outcome, err := s.resolvePending(ctx, nil, request, amounts, packages)
	if err != nil {
		return nil, err
	}
	return outcome.Clarification, nil
}

func (s *intakeService) ListClarifications(ctx context.Context, projectID uuid.UUID) ([]*types.ClarificationRequest, error) {
	return s.clarRepo.GetByProjectID(ctx, nil, projectID)
}

// invitedPackages returns the packages the subcontractor is actually bidding,
// i.e. those containing at least one of their open invited items.
func invitedPackages(packages []*types.ScopePackage, openBids []*types.ItemBid) []*types.ScopePackage {
	openItems := make(map[uuid.UUID]bool, len(openBids))
	for _, bid := range openBids {
		openItems[bid.ScopeItemID] = true
	}
	var invited []*types.ScopePackage
	for _, pkg := range packages {
		if pkg == nil {
			continue
		}
		for _, item := range pkg.Items {
			if openItems[item.ID] {
				invited = append(invited, pkg)
				break
			}
		}
	}
	return invited
}

// packageAmountsFromEntries reads a freeform submission as a per-package
// breakdown: each requested package name claims the first unclaimed entry
// whose description or trade hint contains it (either direction,
// case-insensitive) with a nonzero amount.
func packageAmountsFromEntries(entries []types.LineEntry, requested []string) map[string]float64 {
	amounts := make(map[string]float64)
	claimed := make(map[int]bool)
	for _, name := range requested {
		needle := strings.ToLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for idx, entry := range entries {
			if claimed[idx] || entry.Amount == 0 {
				continue
			}
			if mentionsPackage(entry.Description, needle) || mentionsPackage(entry.TradeHint, needle) {
				amounts[name] = entry.Amount
				claimed[idx] = true
				break
			}
		}
	}
	return amounts
}

func mentionsPackage(field, needle string) bool {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return false
	}
	return strings.Contains(field, needle) || strings.Contains(needle, field)
}
