package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel uses unix-second timestamps. Rows are hard deleted so unique
// slugs and domains become reusable.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt int64     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt int64     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().Unix()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return nil
}

// All returns every model for AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Account{},
		&VerificationToken{},
		&Page{},
		&Link{},
		&Audio{},
		&Block{},
		&Tag{},
		&Template{},
		&TemplateFavorite{},
		&CustomDomain{},
		&PageView{},
		&LinkClick{},
	}
}
