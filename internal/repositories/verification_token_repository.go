package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkbio/internal/models/db_models"
)

var ErrTokenMismatch = errors.New("verification token not found or expired")

type VerificationTokenRepository interface {
	// Replace drops the user's previous codes and stores token.
	Replace(ctx context.Context, token *db_models.VerificationToken) error
	// ConsumeAndVerify marks the user verified and deletes their codes if code is valid at now.
	ConsumeAndVerify(ctx context.Context, userID uuid.UUID, code string, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type verificationTokenRepository struct {
	db *gorm.DB
}

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (r *verificationTokenRepository) Replace(ctx context.Context, token *db_models.VerificationToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&db_models.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *verificationTokenRepository) ConsumeAndVerify(ctx context.Context, userID uuid.UUID, code string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token db_models.VerificationToken
		err := tx.Where("user_id = ? AND code = ? AND expires_at > ?", userID, code, now).
			First(&token).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenMismatch
			}
			return err
		}
		if err := tx.Model(&db_models.User{}).
			Where("id = ?", userID).
			Update("email_verified", true).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&db_models.VerificationToken{}).Error
	})
}

func (r *verificationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&db_models.VerificationToken{})
	return res.RowsAffected, res.Error
}
