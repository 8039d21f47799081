package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkbio/internal/models/db_models"
)

type TemplateFilter struct {
	Search      string
	CreatorName string
	Tags        []string
	SortBy      string
	Offset      int
	Limit       int
}

type TemplateRepository interface {
	// Create stores the template and connects its tags, creating missing ones.
	Create(ctx context.Context, template *db_models.Template, tagNames []string) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Template, error)
	ListPublic(ctx context.Context, filter TemplateFilter) ([]db_models.Template, int64, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]db_models.Template, error)
	ListFavoritedBy(ctx context.Context, userID uuid.UUID) ([]db_models.Template, error)
	ListRecentPublic(ctx context.Context, limit int) ([]db_models.Template, error)
	FavoriteCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	FavoritedBy(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)
	AddFavorite(ctx context.Context, userID, templateID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, templateID uuid.UUID) (int64, error)
	DeleteForCreator(ctx context.Context, id, creatorID uuid.UUID) (int64, error)
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *db_models.Template, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := NewTagRepository(tx).ConnectOrCreate(ctx, tagNames)
		if err != nil {
			return err
		}
		template.Tags = tags
		return tx.Omit("Tags.*").Create(template).Error
	})
}

func withListing(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags").Preload("Creator")
}

func (r *templateRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Template, error) {
	var template db_models.Template
	err := r.db.WithContext(ctx).
		Scopes(withListing).
		First(&template, "id = ?", id).Error
	return firstOrNil(err, &template)
}

const favoriteCountExpr = "(SELECT COUNT(*) FROM template_favorites tf WHERE tf.template_id = templates.id)"

func (r *templateRepository) ListPublic(ctx context.Context, filter TemplateFilter) ([]db_models.Template, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&db_models.Template{}).
		Where("templates.visibility = ?", db_models.VisibilityPublic)

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("LOWER(templates.name) LIKE ?", "%"+search+"%")
	}
	if creator := strings.ToLower(strings.TrimSpace(filter.CreatorName)); creator != "" {
		query = query.Where("templates.creator_id IN (?)",
			r.db.Table("users").Select("id").Where("LOWER(name) LIKE ?", "%"+creator+"%"))
	}
	if len(filter.Tags) > 0 {
		query = query.Where("templates.id IN (?)",
			r.db.Table("template_tags").
				Select("template_tags.template_id").
				Joins("JOIN tags ON tags.id = template_tags.tag_id").
				Where("tags.name IN ?", filter.Tags))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.SortBy {
	case "newest":
		query = query.Order("templates.created_at DESC")
	case "oldest":
		query = query.Order("templates.created_at ASC")
	default:
		query = query.Order(favoriteCountExpr + " DESC").Order("templates.created_at DESC")
	}

	templates := []db_models.Template{}
	err := query.
		Scopes(withListing).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&templates).Error
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

func (r *templateRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]db_models.Template, error) {
	templates := []db_models.Template{}
	err := r.db.WithContext(ctx).
		Scopes(withListing).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

func (r *templateRepository) ListFavoritedBy(ctx context.Context, userID uuid.UUID) ([]db_models.Template, error) {
	templates := []db_models.Template{}
	err := r.db.WithContext(ctx).
		Scopes(withListing).
		Where("id IN (?)", r.db.Table("template_favorites").Select("template_id").Where("user_id = ?", userID)).
		Where("visibility <> ? OR creator_id = ?", db_models.VisibilityPrivate, userID).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

func (r *templateRepository) ListRecentPublic(ctx context.Context, limit int) ([]db_models.Template, error) {
	templates := []db_models.Template{}
	err := r.db.WithContext(ctx).
		Scopes(withListing).
		Where("visibility = ?", db_models.VisibilityPublic).
		Order("created_at DESC").
		Limit(limit).
		Find(&templates).Error
	return templates, err
}

type templateCountRow struct {
	TemplateID uuid.UUID `gorm:"column:template_id"`
	Count      int64     `gorm:"column:count"`
}

func (r *templateRepository) FavoriteCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []templateCountRow
	err := r.db.WithContext(ctx).
		Model(&db_models.TemplateFavorite{}).
		Select("template_id, COUNT(*) AS count").
		Where("template_id IN ?", ids).
		Group("template_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TemplateID] = row.Count
	}
	return counts, nil
}

func (r *templateRepository) FavoritedBy(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if len(ids) == 0 || userID == uuid.Nil {
		return set, nil
	}
	var favorited []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.TemplateFavorite{}).
		Where("user_id = ? AND template_id IN ?", userID, ids).
		Pluck("template_id", &favorited).Error
	if err != nil {
		return nil, err
	}
	for _, id := range favorited {
		set[id] = true
	}
	return set, nil
}

// AddFavorite is idempotent on (user_id, template_id).
func (r *templateRepository) AddFavorite(ctx context.Context, userID, templateID uuid.UUID) error {
	fav := &db_models.TemplateFavorite{UserID: userID, TemplateID: templateID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "template_id"}},
			DoNothing: true,
		}).
		Create(fav).Error
}

func (r *templateRepository) RemoveFavorite(ctx context.Context, userID, templateID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND template_id = ?", userID, templateID).
		Delete(&db_models.TemplateFavorite{})
	return res.RowsAffected, res.Error
}

func (r *templateRepository) DeleteForCreator(ctx context.Context, id, creatorID uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var template db_models.Template
		if err := tx.Where("id = ? AND creator_id = ?", id, creatorID).First(&template).Error; err != nil {
			return err
		}
		if err := tx.Model(&template).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&db_models.TemplateFavorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&template)
		affected = res.RowsAffected
		return res.Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return affected, err
}
