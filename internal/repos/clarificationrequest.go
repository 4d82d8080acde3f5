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

// ErrPendingExists reports that a pending clarification already exists for
// the (project, subcontractor) pair. Callers retry with a read-merge-write.
var ErrPendingExists = errors.New("pending clarification request already exists")

type ClarificationRequestRepo interface {
  CreatePendingIfAbsent(ctx context.Context, tx *gorm.DB, row *types.ClarificationRequest) error
  GetPending(ctx context.Context, tx *gorm.DB, projectID, subID uuid.UUID) (*types.ClarificationRequest, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClarificationRequest, error)
  GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ClarificationRequest, error)
  Save(ctx context.Context, tx *gorm.DB, row *types.ClarificationRequest) error
}

type clarificationRequestRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClarificationRequestRepo(db *gorm.DB, baseLog *logger.Logger) ClarificationRequestRepo {
  repoLog := baseLog.With("repo", "ClarificationRequestRepo")
  return &clarificationRequestRepo{db: db, log: repoLog}
}

// CreatePendingIfAbsent inserts a pending request atomically against the
// uniq_clarification_pending partial index. Returns ErrPendingExists when the
// pair already has a pending row.
func (r *clarificationRequestRepo) CreatePendingIfAbsent(ctx context.Context, tx *gorm.DB, row *types.ClarificationRequest) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }
  row.Status = types.ClarificationStatusPending

  result := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:     []clause.Column{{Name: "project_id"}, {Name: "subcontractor_id"}},
      TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "status = 'pending' AND deleted_at IS NULL"}}},
      DoNothing:   true,
    }).
    Create(row)
  if result.Error != nil {
    return result.Error
  }
  if result.RowsAffected == 0 {
    return ErrPendingExists
  }
  return nil
}

func (r *clarificationRequestRepo) GetPending(ctx context.Context, tx *gorm.DB, projectID, subID uuid.UUID) (*types.ClarificationRequest, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if projectID == uuid.Nil || subID == uuid.Nil {
    return nil, nil
  }

  var result types.ClarificationRequest
  err := transaction.WithContext(ctx).
    Where("project_id = ? AND subcontractor_id = ? AND status = ?", projectID, subID, types.ClarificationStatusPending).
    First(&result).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *clarificationRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClarificationRequest, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return nil, nil
  }

  var result types.ClarificationRequest
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (r *clarificationRequestRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ClarificationRequest, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ClarificationRequest
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

func (r *clarificationRequestRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ClarificationRequest) error {
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
