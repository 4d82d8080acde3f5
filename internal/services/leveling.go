package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/plumbline/plumbline-backend/internal/leveling"
	"github.com/plumbline/plumbline-backend/internal/logger"
	"github.com/plumbline/plumbline-backend/internal/repos"
	"github.com/plumbline/plumbline-backend/internal/types"
)

// PackageLeveling pairs a package with its coverage analysis.
type PackageLeveling struct {
	Package  *types.ScopePackage     `json:"package"`
	Coverage leveling.CoverageResult `json:"coverage"`
}

type LevelingService interface {
	LevelProject(ctx context.Context, projectID uuid.UUID) ([]PackageLeveling, error)
	LevelPackage(ctx context.Context, packageID uuid.UUID) (*PackageLeveling, error)
	WinningAmounts(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]float64, error)
}

type levelingService struct {
	db          *gorm.DB
	log         *logger.Logger
	packageRepo repos.ScopePackageRepo
	itemRepo    repos.ScopeItemRepo
	itemBidRepo repos.ItemBidRepo
	pkgBidRepo  repos.PackageBidRepo
}

func NewLevelingService(db *gorm.DB, log *logger.Logger, packageRepo repos.ScopePackageRepo, itemRepo repos.ScopeItemRepo, itemBidRepo repos.ItemBidRepo, pkgBidRepo repos.PackageBidRepo) LevelingService {
	return &levelingService{
		db:          db,
		log:         log.With("service", "LevelingService"),
		packageRepo: packageRepo,
		itemRepo:    itemRepo,
		itemBidRepo: itemBidRepo,
		pkgBidRepo:  pkgBidRepo,
	}
}

// LevelProject analyzes every package of a project. The core is pure, so
// packages are fanned out concurrently.
func (s *levelingService) LevelProject(ctx context.Context, projectID uuid.UUID) ([]PackageLeveling, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("project id required")
	}
	packages, err := s.packageRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	results := make([]PackageLeveling, len(packages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, pkg := range packages {
		i, pkg := i, pkg
		g.Go(func() error {
			leveled, err := s.levelOne(gctx, pkg)
			if err != nil {
				return err
			}
			results[i] = *leveled
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *levelingService) LevelPackage(ctx context.Context, packageID uuid.UUID) (*PackageLeveling, error) {
	if packageID == uuid.Nil {
		return nil, fmt.Errorf("package id required")
	}
	pkg, err := s.packageRepo.GetByID(ctx, nil, packageID)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	return s.levelOne(ctx, pkg)
}

func (s *levelingService) levelOne(ctx context.Context, pkg *types.ScopePackage) (*PackageLeveling, error) {
	if pkg == nil {
		return nil, fmt.Errorf("package required")
	}
	items, err := s.itemRepo.GetByPackageID(ctx, nil, pkg.ID)
	if err != nil {
		return nil, fmt.Errorf("load package items: %w", err)
	}
	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	itemBids, err := s.itemBidRepo.GetByScopeItemIDs(ctx, nil, itemIDs, []string{types.ItemBidStatusSubmitted})
	if err != nil {
		return nil, fmt.Errorf("load item bids: %w", err)
	}
	packageBids, err := s.pkgBidRepo.GetByPackageIDs(ctx, nil, []uuid.UUID{pkg.ID}, []string{types.PackageBidStatusApproved})
	if err != nil {
		return nil, fmt.Errorf("load package bids: %w", err)
	}

	coverage := leveling.AnalyzeCoverage(pkg, items, itemBids, packageBids)
	if coverage.Truncated {
		s.log.Warn("Combination search truncated", "packageID", pkg.ID, "bidders", len(coverage.Bidders))
	}
	return &PackageLeveling{Package: pkg, Coverage: coverage}, nil
}

// WinningAmounts resolves the authoritative per-item price for a project:
// the cheapest complete bidder's per-item amounts for packaged items, the
// lowest submitted bid for loose items. Items nobody priced are absent and
// fall back downstream.
func (s *levelingService) WinningAmounts(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]float64, error) {
	leveled, err := s.LevelProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	winners := make(map[uuid.UUID]float64)
	packaged := make(map[uuid.UUID]bool)
	for _, pl := range leveled {
		for _, item := range pl.Package.Items {
			packaged[item.ID] = true
		}
		if len(pl.Coverage.Bidders) == 0 {
			continue
		}
		best := pl.Coverage.Bidders[0]
		if !best.Complete {
			continue
		}
		for itemID, amount := range best.ItemAmounts {
			winners[itemID] = amount
		}
	}

	items, err := s.itemRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project items: %w", err)
	}
	looseIDs := make([]uuid.UUID, 0)
	for _, item := range items {
		if !packaged[item.ID] {
			looseIDs = append(looseIDs, item.ID)
		}
	}
	looseBids, err := s.itemBidRepo.GetByScopeItemIDs(ctx, nil, looseIDs, []string{types.ItemBidStatusSubmitted})
	if err != nil {
		return nil, fmt.Errorf("load loose item bids: %w", err)
	}
	for _, bid := range looseBids {
		current, ok := winners[bid.ScopeItemID]
		if !ok || bid.Amount < current {
			winners[bid.ScopeItemID] = bid.Amount
		}
	}
	return winners, nil
}
