package db_models

import "github.com/google/uuid"

const (
	AudioSourceUpload   = "upload"
	AudioSourceExternal = "external"
)

type Audio struct {
	BaseModel
	PageID     uuid.UUID `gorm:"type:uuid;not null;index" json:"pageId"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	SourceType string    `gorm:"size:16;not null;default:upload" json:"sourceType"`
	CoverURL   *string   `json:"coverUrl"`
	Order      int       `gorm:"column:order;not null;default:0" json:"order"`
	IsActive   bool      `gorm:"not null;default:false" json:"isActive"`
}
