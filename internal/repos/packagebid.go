package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type PackageBidRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.PackageBid) ([]*types.PackageBid, error)
  GetByPackageIDs(ctx context.Context, tx *gorm.DB, packageIDs []uuid.UUID, statuses []string) ([]*types.PackageBid, error)
  GetBySubAndProject(ctx context.Context, tx *gorm.DB, subID, projectID uuid.UUID) ([]*types.PackageBid, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.PackageBid) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type packageBidRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPackageBidRepo(db *gorm.DB, baseLog *logger.Logger) PackageBidRepo {
  repoLog := baseLog.With("repo", "PackageBidRepo")
  return &packageBidRepo{db: db, log: repoLog}
}

func (r *packageBidRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PackageBid) ([]*types.PackageBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.PackageBid{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *packageBidRepo) GetByPackageIDs(ctx context.Context, tx *gorm.DB, packageIDs []uuid.UUID, statuses []string) ([]*types.PackageBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PackageBid
  if len(packageIDs) == 0 {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Where("scope_package_id IN ?", packageIDs)
  if len(statuses) > 0 {
    query = query.Where("status IN ?", statuses)
  }

  if err := query.
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *packageBidRepo) GetBySubAndProject(ctx context.Context, tx *gorm.DB, subID, projectID uuid.UUID) ([]*types.PackageBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PackageBid
  if subID == uuid.Nil || projectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Joins("JOIN scope_package ON scope_package.id = package_bid.scope_package_id").
    Where("package_bid.subcontractor_id = ? AND scope_package.project_id = ?", subID, projectID).
    Order("package_bid.created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *packageBidRepo) Save(ctx context.Context, tx *gorm.DB, row *types.PackageBid) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *packageBidRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.PackageBid{}).Error; err != nil {
    return err
  }
  return nil
}
