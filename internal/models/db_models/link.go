package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Link struct {
	BaseModel
	PageID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"pageId"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	URL         string     `gorm:"type:text;not null" json:"url"`
	Order       int        `gorm:"column:order;not null;default:0" json:"order"`
	IsActive    bool       `gorm:"not null;index" json:"isActive"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduledAt"`
	ExpiresAt   *time.Time `gorm:"index" json:"expiresAt"`
	ClickCount  int64      `gorm:"not null;default:0" json:"clickCount"`
}
