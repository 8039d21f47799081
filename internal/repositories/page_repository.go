package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type PageRepository interface {
	Create(ctx context.Context, page *db_models.Page) error
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Page, error)
	FindFirstByUser(ctx context.Context, userID uuid.UUID) (*db_models.Page, error)
	FindBySlug(ctx context.Context, slug string) (*db_models.Page, error)
	ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListByUser(ctx context.Context, userID uuid.UUID, search string, offset, limit int) ([]db_models.Page, int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	// LoadContent fills links, audios and blocks ordered by position. publicOnly
	// hides inactive links and invisible blocks.
	LoadContent(ctx context.Context, page *db_models.Page, publicOnly bool) error
	UpdateForUser(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) (int64, error)
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *db_models.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Page, error) {
	var page db_models.Page
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&page).Error
	return firstOrNil(err, &page)
}

func (r *pageRepository) FindFirstByUser(ctx context.Context, userID uuid.UUID) (*db_models.Page, error) {
	var page db_models.Page
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&page).Error
	return firstOrNil(err, &page)
}

func (r *pageRepository) FindBySlug(ctx context.Context, slug string) (*db_models.Page, error) {
	var page db_models.Page
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("slug = ?", slug).
		First(&page).Error
	return firstOrNil(err, &page)
}

func (r *pageRepository) ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.Page{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *pageRepository) ListByUser(ctx context.Context, userID uuid.UUID, search string, offset, limit int) ([]db_models.Page, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&db_models.Page{}).
		Where("user_id = ?", userID)
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pages []db_models.Page
	err := query.
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pages).Error
	if err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

func (r *pageRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db_models.Page{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *pageRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&db_models.Page{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order(orderColumn + " ASC").Order("created_at ASC")
}

func (r *pageRepository) LoadContent(ctx context.Context, page *db_models.Page, publicOnly bool) error {
	db := r.db.WithContext(ctx)

	links := db.Where("page_id = ?", page.ID)
	blocks := db.Where("page_id = ?", page.ID)
	if publicOnly {
		links = links.Where("is_active = ?", true)
		blocks = blocks.Where("is_visible = ?", true)
	}

	page.Links = []db_models.Link{}
	if err := links.Scopes(byPosition).Find(&page.Links).Error; err != nil {
		return err
	}
	page.Audios = []db_models.Audio{}
	if err := db.Where("page_id = ?", page.ID).Scopes(byPosition).Find(&page.Audios).Error; err != nil {
		return err
	}
	page.Blocks = []db_models.Block{}
	return blocks.Scopes(byPosition).Find(&page.Blocks).Error
}

func (r *pageRepository) UpdateForUser(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&db_models.Page{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *pageRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&db_models.Page{})
	return res.RowsAffected, res.Error
}
