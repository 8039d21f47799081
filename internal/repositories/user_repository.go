package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

type UserRepository interface {
	Create(ctx context.Context, user *db_models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateRoleByStripeCustomer(ctx context.Context, customerID, role string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *db_models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	return firstOrNil(err, &user)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	return firstOrNil(err, &user)
}

func (r *userRepository) FindByStripeCustomerID(ctx context.Context, customerID string) (*db_models.User, error) {
	var user db_models.User
	err := r.db.WithContext(ctx).First(&user, "stripe_customer_id = ?", customerID).Error
	return firstOrNil(err, &user)
}

func (r *userRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateRoleByStripeCustomer returns 0 rows when no user holds the customer id.
func (r *userRepository) UpdateRoleByStripeCustomer(ctx context.Context, customerID, role string) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.User{}).
			Where("stripe_customer_id = ?", customerID).
			Update("role", role)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&db_models.User{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
