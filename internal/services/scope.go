package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plumbline/plumbline-backend/internal/logger"
	"github.com/plumbline/plumbline-backend/internal/repos"
	"github.com/plumbline/plumbline-backend/internal/types"
)

// ProjectScope bundles everything the leveling board renders for a project.
type ProjectScope struct {
	Project  *types.Project       `json:"project"`
	Items    []*types.ScopeItem   `json:"items"`
	Packages []*types.ScopePackage `json:"packages"`
}

type ScopeService interface {
	CreateProject(ctx context.Context, row *types.Project) (*types.Project, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	GetProjectScope(ctx context.Context, projectID uuid.UUID) (*ProjectScope, error)
	CreateSubcontractor(ctx context.Context, row *types.Subcontractor) (*types.Subcontractor, error)
	CreateDivisions(ctx context.Context, rows []*types.Division) ([]*types.Division, error)
	ListDivisions(ctx context.Context) ([]*types.Division, error)
	CreateScopeItems(ctx context.Context, rows []*types.ScopeItem) ([]*types.ScopeItem, error)
	CreateScopePackage(ctx context.Context, row *types.ScopePackage, itemIDs []uuid.UUID) (*types.ScopePackage, error)
	AssignItemsToPackage(ctx context.Context, packageID uuid.UUID, itemIDs []uuid.UUID) error
	InviteBids(ctx context.Context, projectID, subID uuid.UUID, itemIDs []uuid.UUID) ([]*types.ItemBid, error)
}

type scopeService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	subRepo     repos.SubcontractorRepo
	divRepo     repos.DivisionRepo
	itemRepo    repos.ScopeItemRepo
	packageRepo repos.ScopePackageRepo
	itemBidRepo repos.ItemBidRepo
}

func NewScopeService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, subRepo repos.SubcontractorRepo, divRepo repos.DivisionRepo, itemRepo repos.ScopeItemRepo, packageRepo repos.ScopePackageRepo, itemBidRepo repos.ItemBidRepo) ScopeService {
	return &scopeService{
		db:          db,
		log:         log.With("service", "ScopeService"),
		projectRepo: projectRepo,
		subRepo:     subRepo,
		divRepo:     divRepo,
		itemRepo:    itemRepo,
		packageRepo: packageRepo,
		itemBidRepo: itemBidRepo,
	}
}

func (s *scopeService) CreateProject(ctx context.Context, row *types.Project) (*types.Project, error) {
	if row == nil || row.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	created, err := s.projectRepo.Create(ctx, nil, []*types.Project{row})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return created[0], nil
}

func (s *scopeService) ListProjects(ctx context.Context) ([]*types.Project, error) {
	return s.projectRepo.GetAll(ctx, nil)
}

func (s *scopeService) GetProjectScope(ctx context.Context, projectID uuid.UUID) (*ProjectScope, error) {
	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	items, err := s.itemRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	packages, err := s.packageRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	return &ProjectScope{Project: project, Items: items, Packages: packages}, nil
}

func (s *scopeService) CreateSubcontractor(ctx context.Context, row *types.Subcontractor) (*types.Subcontractor, error) {
	if row == nil || row.CompanyName == "" {
		return nil, fmt.Errorf("subcontractor name is required")
	}
	created, err := s.subRepo.Create(ctx, nil, []*types.Subcontractor{row})
	if err != nil {
		return nil, fmt.Errorf("create subcontractor: %w", err)
	}
	return created[0], nil
}

func (s *scopeService) CreateDivisions(ctx context.Context, rows []*types.Division) ([]*types.Division, error) {
	return s.divRepo.Create(ctx, nil, rows)
}

func (s *scopeService) ListDivisions(ctx context.Context) ([]*types.Division, error) {
	return s.divRepo.GetAll(ctx, nil)
}

func (s *scopeService) CreateScopeItems(ctx context.Context, rows []*types.ScopeItem) ([]*types.ScopeItem, error) {
	for _, row := range rows {
		if row.ProjectID == uuid.Nil {
			return nil, fmt.Errorf("scope items require a project")
		}
	}
	created, err := s.itemRepo.Create(ctx, nil, rows)
	if err != nil {
		return nil, fmt.Errorf("create scope items: %w", err)
	}
	return created, nil
}

// CreateScopePackage creates the package and claims any named items in one
// transaction, so a partial claim never leaves a half-built package behind.
func (s *scopeService) CreateScopePackage(ctx context.Context, row *types.ScopePackage, itemIDs []uuid.UUID) (*types.ScopePackage, error) {
	if row == nil || row.ProjectID == uuid.Nil || row.Name == "" {
		return nil, fmt.Errorf("package project and name are required")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.packageRepo.Create(ctx, tx, []*types.ScopePackage{row})
		if err != nil {
			return fmt.Errorf("create package: %w", err)
		}
		row = created[0]
		if len(itemIDs) > 0 {
			return s.itemRepo.AssignToPackage(ctx, tx, itemIDs, row.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.packageRepo.GetByID(ctx, nil, row.ID)
}

func (s *scopeService) AssignItemsToPackage(ctx context.Context, packageID uuid.UUID, itemIDs []uuid.UUID) error {
	if err := s.itemRepo.AssignToPackage(ctx, nil, itemIDs, packageID); err != nil {
		return fmt.Errorf("assign items: %w", err)
	}
	return nil
}

// InviteBids opens item-level bid slots for a subcontractor. Items already
// holding a bid from the same subcontractor are skipped.
func (s *scopeService) InviteBids(ctx context.Context, projectID, subID uuid.UUID, itemIDs []uuid.UUID) ([]*types.ItemBid, error) {
	if projectID == uuid.Nil || subID == uuid.Nil || len(itemIDs) == 0 {
		return nil, fmt.Errorf("project, subcontractor and items are required")
	}
	existing, err := s.itemBidRepo.GetBySubAndProject(ctx, nil, subID, projectID, nil)
	if err != nil {
		return nil, fmt.Errorf("load existing bids: %w", err)
	}
	held := make(map[uuid.UUID]bool, len(existing))
	for _, bid := range existing {
		held[bid.ScopeItemID] = true
	}

	var invites []*types.ItemBid
	for _, itemID := range itemIDs {
		if held[itemID] {
			continue
		}
		invites = append(invites, &types.ItemBid{
			SubcontractorID: subID,
			ScopeItemID:     itemID,
			Status:          types.ItemBidStatusInvited,
		})
	}
	if len(invites) == 0 {
		return []*types.ItemBid{}, nil
	}
	created, err := s.itemBidRepo.Create(ctx, nil, invites)
	if err != nil {
		return nil, fmt.Errorf("create invitations: %w", err)
	}
	s.log.Info("Bid invitations created", "projectID", projectID, "subcontractorID", subID, "count", len(created))
	return created, nil
}
