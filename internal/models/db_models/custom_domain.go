package db_models

import (
	"time"

	"github.com/google/uuid"
)

type CustomDomain struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	User       *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PageID     *uuid.UUID `gorm:"type:uuid" json:"pageId"`
	Page       *Page      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Domain     string     `gorm:"size:255;not null;uniqueIndex" json:"domain"`
	Verified   bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt"`
}
