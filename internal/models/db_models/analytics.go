package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PageView struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PageID    uuid.UUID `gorm:"type:uuid;not null;index:idx_page_view_page_time"`
	Page      Page      `gorm:"constraint:OnDelete:CASCADE"`
	Referrer  string    `gorm:"size:255;not null;default:direct"`
	Country   string    `gorm:"size:64;not null;default:Unknown"`
	CreatedAt time.Time `gorm:"not null;index:idx_page_view_page_time"`
}

type LinkClick struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LinkID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Link      Link      `gorm:"constraint:OnDelete:CASCADE"`
	PageID    uuid.UUID `gorm:"type:uuid;not null;index:idx_link_click_page_time"`
	Referrer  string    `gorm:"size:255;not null;default:direct"`
	Country   string    `gorm:"size:64;not null;default:Unknown"`
	CreatedAt time.Time `gorm:"not null;index:idx_link_click_page_time"`
}

func (v *PageView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (c *LinkClick) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}
