package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	BlockLink    = "LINK"
	BlockHeader  = "HEADER"
	BlockText    = "TEXT"
	BlockDivider = "DIVIDER"
	BlockVideo   = "VIDEO"
	BlockSocial  = "SOCIAL"
	BlockImage   = "IMAGE"
	BlockAudio   = "AUDIO"
)

var BlockTypes = []string{BlockLink, BlockHeader, BlockText, BlockDivider, BlockVideo, BlockSocial, BlockImage, BlockAudio}

type Block struct {
	BaseModel
	PageID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"pageId"`
	Type      string            `gorm:"size:16;not null" json:"type"`
	Content   datatypes.JSONMap `json:"content"`
	IsVisible bool              `gorm:"not null" json:"isVisible"`
	Order     int               `gorm:"column:order;not null;default:0" json:"order"`
}
