package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type EstimateSettingRepo interface {
  GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.EstimateSetting, error)
  Upsert(ctx context.Context, tx *gorm.DB, row *types.EstimateSetting) error
}

type estimateSettingRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewEstimateSettingRepo(db *gorm.DB, baseLog *logger.Logger) EstimateSettingRepo {
  repoLog := baseLog.With("repo", "EstimateSettingRepo")
  return &estimateSettingRepo{db: db, log: repoLog}
}

func (r *estimateSettingRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.EstimateSetting, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if projectID == uuid.Nil {
    return nil, nil
  }

  var result types.EstimateSetting
  err := transaction.WithContext(ctx).
    Where("project_id = ?", projectID).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *estimateSettingRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.EstimateSetting) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil || row.ProjectID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "project_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "markup_percent", "general_conditions", "overhead_profit", "contingency", "custom_line_items", "updated_at",
      }),
    }).
    Create(row).Error; err != nil {
    return err
  }
  return nil
}
