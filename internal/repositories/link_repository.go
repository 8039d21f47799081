package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type LinkRepository interface {
	Create(ctx context.Context, link *db_models.Link) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Link, error)
	// FindOwned resolves a link only when it sits on one of userID's pages.
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Link, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]db_models.Link, error)
	MaxOrder(ctx context.Context, pageID uuid.UUID) (int, error)
	Update(ctx context.Context, id, pageID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id, pageID uuid.UUID) (int64, error)
	CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error)
	Reorder(ctx context.Context, pageID uuid.UUID, items []OrderUpdate) error

	ActivateScheduled(ctx context.Context, now time.Time) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *db_models.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *linkRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Link, error) {
	var link db_models.Link
	err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error
	return firstOrNil(err, &link)
}

func (r *linkRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Link, error) {
	var link db_models.Link
	err := r.db.WithContext(ctx).
		Where("id = ? AND page_id IN (?)", id, ownedPageIDs(r.db, userID)).
		First(&link).Error
	return firstOrNil(err, &link)
}

func (r *linkRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]db_models.Link, error) {
	links := []db_models.Link{}
	err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Scopes(byPosition).
		Find(&links).Error
	return links, err
}

func (r *linkRepository) MaxOrder(ctx context.Context, pageID uuid.UUID) (int, error) {
	return maxOrder(ctx, r.db, &db_models.Link{}, pageID)
}

func (r *linkRepository) Update(ctx context.Context, id, pageID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db_models.Link{}).
		Where("id = ? AND page_id = ?", id, pageID).
		Updates(updates).Error
}

func (r *linkRepository) Delete(ctx context.Context, id, pageID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND page_id = ?", id, pageID).
		Delete(&db_models.Link{})
	return res.RowsAffected, res.Error
}

func (r *linkRepository) CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error) {
	return countInPage(ctx, r.db, &db_models.Link{}, pageID, ids)
}

func (r *linkRepository) Reorder(ctx context.Context, pageID uuid.UUID, items []OrderUpdate) error {
	return reorder(ctx, r.db, &db_models.Link{}, pageID, items)
}

// ActivateScheduled turns on links whose schedule has started and that have not expired.
func (r *linkRepository) ActivateScheduled(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Link{}).
		Where("is_active = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", false, now).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Update("is_active", true)
	return res.RowsAffected, res.Error
}

func (r *linkRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Link{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
