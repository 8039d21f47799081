package db_models

import (
	"time"

	"github.com/google/uuid"
)

const ProviderDiscord = "discord"

// Account links a user to an OAuth provider identity.
type Account struct {
	BaseModel
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	Provider          string     `gorm:"size:32;not null;uniqueIndex:idx_account_provider"`
	ProviderAccountID string     `gorm:"size:128;not null;uniqueIndex:idx_account_provider"`
	AccessToken       string     `gorm:"type:text"`
	RefreshToken      string     `gorm:"type:text"`
	ExpiresAt         *time.Time
}
