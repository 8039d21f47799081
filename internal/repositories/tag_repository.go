package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
	"linkbio/internal/models/response_models"
)

type TagRepositoryInterface interface {
	ConnectOrCreate(ctx context.Context, names []string) ([]db_models.Tag, error)
	PopularTags(ctx context.Context, limit int) ([]response_models.TagUsage, error)
}

func NewTagRepository(db *gorm.DB) TagRepositoryInterface {
	return &TagRepository{db: db}
}

type TagRepository struct {
	db *gorm.DB
}

// ConnectOrCreate reuses tags by lowercase name and creates the rest.
func (t TagRepository) ConnectOrCreate(ctx context.Context, names []string) ([]db_models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]db_models.Tag, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag db_models.Tag
		if err := t.db.WithContext(ctx).Where(db_models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (t TagRepository) PopularTags(ctx context.Context, limit int) ([]response_models.TagUsage, error) {
	rows := []response_models.TagUsage{}
	err := t.db.WithContext(ctx).
		Table("template_tags").
		Select("tags.name AS name, COUNT(*) AS count").
		Joins("JOIN tags ON tags.id = template_tags.tag_id").
		Joins("JOIN templates ON templates.id = template_tags.template_id").
		Where("templates.visibility = ?", db_models.VisibilityPublic).
		Group("tags.name").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
