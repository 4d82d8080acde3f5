package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type FreeformSubmissionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.FreeformSubmission) ([]*types.FreeformSubmission, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FreeformSubmission, error)
  GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.FreeformSubmission, error)
  UpdateState(ctx context.Context, tx *gorm.DB, id uuid.UUID, state, reason string) error
}

type freeformSubmissionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFreeformSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) FreeformSubmissionRepo {
  repoLog := baseLog.With("repo", "FreeformSubmissionRepo")
  return &freeformSubmissionRepo{db: db, log: repoLog}
}

func (r *freeformSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.FreeformSubmission) ([]*types.FreeformSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.FreeformSubmission{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *freeformSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.FreeformSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.FreeformSubmission
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *freeformSubmissionRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.FreeformSubmission, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.FreeformSubmission
  if projectID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("project_id = ?", projectID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *freeformSubmissionRepo) UpdateState(ctx context.Context, tx *gorm.DB, id uuid.UUID, state, reason string) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.FreeformSubmission{}).
    Where("id = ?", id).
    Updates(map[string]interface{}{"state": state, "state_reason": reason}).Error; err != nil {
    return err
  }
  return nil
}
