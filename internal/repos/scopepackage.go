package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type ScopePackageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.ScopePackage) ([]*types.ScopePackage, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScopePackage, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopePackage, error)
  GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ScopePackage, error)
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type scopePackageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewScopePackageRepo(db *gorm.DB, baseLog *logger.Logger) ScopePackageRepo {
  repoLog := baseLog.With("repo", "ScopePackageRepo")
  return &scopePackageRepo{db: db, log: repoLog}
}

func (r *scopePackageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScopePackage) ([]*types.ScopePackage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.ScopePackage{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *scopePackageRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScopePackage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.ScopePackage
  if err := transaction.WithContext(ctx).
    Preload("Items").
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *scopePackageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopePackage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ScopePackage
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Items").
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *scopePackageRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ScopePackage, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ScopePackage
  if projectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Items").
    Where("project_id = ?", projectID).
    Order("name ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *scopePackageRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.ScopePackage{}).Error; err != nil {
    return err
  }
  return nil
}
