package db_models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationToken struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
