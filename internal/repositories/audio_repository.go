package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type AudioRepository interface {
	Create(ctx context.Context, audio *db_models.Audio) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Audio, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]db_models.Audio, error)
	CountByPage(ctx context.Context, pageID uuid.UUID) (int64, error)
	MaxOrder(ctx context.Context, pageID uuid.UUID) (int, error)
	Update(ctx context.Context, id, pageID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id, pageID uuid.UUID) (int64, error)
	CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error)
	Reorder(ctx context.Context, pageID uuid.UUID, items []OrderUpdate) error
	// SetActive leaves id as the only active audio of the page.
	SetActive(ctx context.Context, id, pageID uuid.UUID) error
}

type audioRepository struct {
	db *gorm.DB
}

func NewAudioRepository(db *gorm.DB) AudioRepository {
	return &audioRepository{db: db}
}

func (r *audioRepository) Create(ctx context.Context, audio *db_models.Audio) error {
	return r.db.WithContext(ctx).Create(audio).Error
}

func (r *audioRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*db_models.Audio, error) {
	var audio db_models.Audio
	err := r.db.WithContext(ctx).
		Where("id = ? AND page_id IN (?)", id, ownedPageIDs(r.db, userID)).
		First(&audio).Error
	return firstOrNil(err, &audio)
}

func (r *audioRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]db_models.Audio, error) {
	audios := []db_models.Audio{}
	err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Scopes(byPosition).
		Find(&audios).Error
	return audios, err
}

func (r *audioRepository) CountByPage(ctx context.Context, pageID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Audio{}).
		Where("page_id = ?", pageID).
		Count(&n).Error
	return n, err
}

func (r *audioRepository) MaxOrder(ctx context.Context, pageID uuid.UUID) (int, error) {
	return maxOrder(ctx, r.db, &db_models.Audio{}, pageID)
}

func (r *audioRepository) Update(ctx context.Context, id, pageID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db_models.Audio{}).
		Where("id = ? AND page_id = ?", id, pageID).
		Updates(updates).Error
}

func (r *audioRepository) Delete(ctx context.Context, id, pageID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND page_id = ?", id, pageID).
		Delete(&db_models.Audio{})
	return res.RowsAffected, res.Error
}

func (r *audioRepository) CountInPage(ctx context.Context, pageID uuid.UUID, ids []uuid.UUID) (int64, error) {
	return countInPage(ctx, r.db, &db_models.Audio{}, pageID, ids)
}

func (r *audioRepository) Reorder(ctx context.Context, pageID uuid.UUID, items []OrderUpdate) error {
	return reorder(ctx, r.db, &db_models.Audio{}, pageID, items)
}

func (r *audioRepository) SetActive(ctx context.Context, id, pageID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.Audio{}).
			Where("page_id = ? AND id <> ? AND is_active = ?", pageID, id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&db_models.Audio{}).
			Where("id = ? AND page_id = ?", id, pageID).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
