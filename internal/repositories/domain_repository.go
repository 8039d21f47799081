package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type DomainRepository interface {
	Create(ctx context.Context, domain *db_models.CustomDomain) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*db_models.CustomDomain, error)
	FindByDomain(ctx context.Context, domain string) (*db_models.CustomDomain, error)
	// ResolveSlug maps a verified host to the slug it serves: the configured
	// page, else the owner's oldest page. Empty when nothing matches.
	ResolveSlug(ctx context.Context, host string) (string, error)
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type domainRepository struct {
	db *gorm.DB
}

func NewDomainRepository(db *gorm.DB) DomainRepository {
	return &domainRepository{db: db}
}

func (r *domainRepository) Create(ctx context.Context, domain *db_models.CustomDomain) error {
	return r.db.WithContext(ctx).Create(domain).Error
}

func (r *domainRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*db_models.CustomDomain, error) {
	var domain db_models.CustomDomain
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&domain).Error
	return firstOrNil(err, &domain)
}

func (r *domainRepository) FindByDomain(ctx context.Context, name string) (*db_models.CustomDomain, error) {
	var domain db_models.CustomDomain
	err := r.db.WithContext(ctx).Where("domain = ?", name).First(&domain).Error
	return firstOrNil(err, &domain)
}

func (r *domainRepository) ResolveSlug(ctx context.Context, host string) (string, error) {
	var domain db_models.CustomDomain
	err := r.db.WithContext(ctx).
		Where("domain = ? AND verified = ?", host, true).
		First(&domain).Error
	found, err := firstOrNil(err, &domain)
	if err != nil || found == nil {
		return "", err
	}

	var page db_models.Page
	query := r.db.WithContext(ctx).Where("user_id = ?", found.UserID)
	if found.PageID != nil {
		query = query.Where("id = ?", *found.PageID)
	} else {
		query = query.Order("created_at ASC")
	}
	p, err := firstOrNil(query.First(&page).Error, &page)
	if err != nil || p == nil {
		return "", err
	}
	return p.Slug, nil
}

func (r *domainRepository) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db_models.CustomDomain{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified":    true,
			"verified_at": at,
			"updated_at":  time.Now().Unix(),
		}).Error
}

func (r *domainRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db_models.CustomDomain{})
	return res.RowsAffected, res.Error
}
