package repos

import (
  "context"
  "fmt"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type ScopeItemRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.ScopeItem) ([]*types.ScopeItem, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopeItem, error)
  GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ScopeItem, error)
  GetByPackageID(ctx context.Context, tx *gorm.DB, packageID uuid.UUID) ([]*types.ScopeItem, error)
  AssignToPackage(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID, packageID uuid.UUID) error
  Update(ctx context.Context, tx *gorm.DB, row *types.ScopeItem) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type scopeItemRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewScopeItemRepo(db *gorm.DB, baseLog *logger.Logger) ScopeItemRepo {
  repoLog := baseLog.With("repo", "ScopeItemRepo")
  return &scopeItemRepo{db: db, log: repoLog}
}

func (r *scopeItemRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScopeItem) ([]*types.ScopeItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.ScopeItem{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *scopeItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScopeItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ScopeItem
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Division").
    Where("id IN ?", ids).
    Order("sort_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *scopeItemRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ScopeItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ScopeItem
  if projectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Division").
    Where("project_id = ?", projectID).
    Order("sort_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *scopeItemRepo) GetByPackageID(ctx context.Context, tx *gorm.DB, packageID uuid.UUID) ([]*types.ScopeItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ScopeItem
  if packageID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("Division").
    Where("package_id = ?", packageID).
    Order("sort_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// AssignToPackage claims items for a package. Items already claimed by a
// different package are rejected so packages stay mutually exclusive.
func (r *scopeItemRepo) AssignToPackage(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID, packageID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(itemIDs) == 0 || packageID == uuid.Nil {
    return nil
  }

  var claimed int64
  if err := transaction.WithContext(ctx).
    Model(&types.ScopeItem{}).
    Where("id IN ? AND package_id IS NOT NULL AND package_id <> ?", itemIDs, packageID).
    Count(&claimed).Error; err != nil {
    return err
  }
  if claimed > 0 {
    return fmt.Errorf("%d scope item(s) already belong to another package", claimed)
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ScopeItem{}).
    Where("id IN ?", itemIDs).
    Update("package_id", packageID).Error; err != nil {
    return err
  }
  return nil
}

func (r *scopeItemRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ScopeItem) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil || row.ID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
    return err
  }
  return nil
}

func (r *scopeItemRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.ScopeItem{}).Error; err != nil {
    return err
  }
  return nil
}
