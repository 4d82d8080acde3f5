package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type SubcontractorRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Subcontractor) ([]*types.Subcontractor, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subcontractor, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Subcontractor, error)
}

type subcontractorRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubcontractorRepo(db *gorm.DB, baseLog *logger.Logger) SubcontractorRepo {
  repoLog := baseLog.With("repo", "SubcontractorRepo")
  return &subcontractorRepo{db: db, log: repoLog}
}

func (r *subcontractorRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Subcontractor) ([]*types.Subcontractor, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Subcontractor{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *subcontractorRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Subcontractor, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.Subcontractor
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *subcontractorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Subcontractor, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Subcontractor
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
