package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type DivisionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Division) ([]*types.Division, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Division, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Division, error)
}

type divisionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDivisionRepo(db *gorm.DB, baseLog *logger.Logger) DivisionRepo {
  repoLog := baseLog.With("repo", "DivisionRepo")
  return &divisionRepo{db: db, log: repoLog}
}

func (r *divisionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Division) ([]*types.Division, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Division{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *divisionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Division, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Division
  if err := transaction.WithContext(ctx).
    Order("code ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *divisionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Division, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Division
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
