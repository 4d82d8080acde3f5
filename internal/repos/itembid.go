package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/plumbline/plumbline-backend/internal/logger"
  "github.com/plumbline/plumbline-backend/internal/types"
)

type ItemBidRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.ItemBid) ([]*types.ItemBid, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ItemBid, error)
  GetByScopeItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID, statuses []string) ([]*types.ItemBid, error)
  GetBySubAndProject(ctx context.Context, tx *gorm.DB, subID, projectID uuid.UUID, statuses []string) ([]*types.ItemBid, error)
  Save(ctx context.Context, tx *gorm.DB, rows []*types.ItemBid) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type itemBidRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewItemBidRepo(db *gorm.DB, baseLog *logger.Logger) ItemBidRepo {
  repoLog := baseLog.With("repo", "ItemBidRepo")
  return &itemBidRepo{db: db, log: repoLog}
}

func (r *itemBidRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ItemBid) ([]*types.ItemBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.ItemBid{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *itemBidRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ItemBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ItemBid
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

func (r *itemBidRepo) GetByScopeItemIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID, statuses []string) ([]*types.ItemBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ItemBid
  if len(itemIDs) == 0 {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Where("scope_item_id IN ?", itemIDs)
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

// GetBySubAndProject returns one subcontractor's bids across a project,
// ordered by the scope item sort order so reconciliation stays deterministic.
func (r *itemBidRepo) GetBySubAndProject(ctx context.Context, tx *gorm.DB, subID, projectID uuid.UUID, statuses []string) ([]*types.ItemBid, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ItemBid
  if subID == uuid.Nil || projectID == uuid.Nil {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Joins("JOIN scope_item ON scope_item.id = item_bid.scope_item_id").
    Where("item_bid.subcontractor_id = ? AND scope_item.project_id = ?", subID, projectID)
  if len(statuses) > 0 {
    query = query.Where("item_bid.status IN ?", statuses)
  }

  if err := query.
    Order("scope_item.sort_order ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *itemBidRepo) Save(ctx context.Context, tx *gorm.DB, rows []*types.ItemBid) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return nil
  }

  for _, row := range rows {
    if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
      return err
    }
  }
  return nil
}

func (r *itemBidRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.ItemBid{}).Error; err != nil {
    return err
  }
  return nil
}
