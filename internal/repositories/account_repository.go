package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"linkbio/internal/models/db_models"
)

type AccountRepository interface {
	FindByProvider(ctx context.Context, provider, providerAccountID string) (*db_models.Account, error)
	FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*db_models.Account, error)
	Upsert(ctx context.Context, account *db_models.Account) error
	DeleteByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (a *accountRepository) FindByProvider(ctx context.Context, provider, providerAccountID string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account).Error
	return firstOrNil(err, &account)
}

func (a *accountRepository) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&account).Error
	return firstOrNil(err, &account)
}

// Upsert keys on (provider, provider_account_id) and refreshes cached tokens.
func (a *accountRepository) Upsert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
		}).
		Create(account).Error
}

func (a *accountRepository) DeleteByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (int64, error) {
	res := a.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&db_models.Account{})
	return res.RowsAffected, res.Error
}
