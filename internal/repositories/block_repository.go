package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type BlockRepository interface {
	Create(ctx context.Context, block *db_models.Block) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Block, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]db_models.Block, error)
	MaxOrder(ctx context.Context, pageID uuid.UUID) (int, error)
	Update(ctx context.Context, id, pageID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id, pageID uuid.UUID) (int64, error)
	CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error)
	Reorder(ctx context.Context, pageID uuid.UUID, items []OrderUpdate) error
}

type blockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(ctx context.Context, block *db_models.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *blockRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Block, error) {
	var block db_models.Block
	err := r.db.WithContext(ctx).
		Where("id = ? AND page_id IN (?)", id, ownedPageIDs(r.db, userID)).
		First(&block).Error
	return firstOrNil(err, &block)
}

func (r *blockRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]db_models.Block, error) {
	blocks := []db_models.Block{}
	err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Scopes(byPosition).
		Find(&blocks).Error
	return blocks, err
}

func (r *blockRepository) MaxOrder(ctx context.Context, pageID uuid.UUID) (int, error) {
	return maxOrder(ctx, r.db, &db_models.Block{}, pageID)
}

func (r *blockRepository) Update(ctx context.Context, id, pageID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db_models.Block{}).
		Where("id = ? AND page_id = ?", id, pageID).
		Updates(updates).Error
}

func (r *blockRepository) Delete(ctx context.Context, id, pageID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND page_id = ?", id, pageID).
		Delete(&db_models.Block{})
	return res.RowsAffected, res.Error
}

func (r *blockRepository) CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error) {
	return countInPage(ctx, r.db, &db_models.Block{}, pageID, ids)
}

func (r *blockRepository) Reorder(ctx context.Context, pageID uuid.UUID, items []OrderUpdate) error {
	return reorder(ctx, r.db, &db_models.Block{}, pageID, items)
}
