package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Page struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`

	Slug      string  `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title     string  `gorm:"size:120" json:"title"`
	Bio       *string `gorm:"type:text" json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
	Theme     string  `gorm:"size:32;not null;default:default" json:"theme"`

	BackgroundType     string  `gorm:"size:16;not null;default:solid" json:"backgroundType"`
	GradientDirection  *string `json:"gradientDirection"`
	GradientColorA     *string `json:"gradientColorA"`
	GradientColorB     *string `json:"gradientColorB"`
	BackgroundURL      *string `json:"backgroundUrl"`
	BackgroundColor    *string `json:"backgroundColor"`
	BackgroundVideoURL *string `json:"backgroundVideoUrl"`

	Location        *string `json:"location"`
	AudioURL        *string `json:"audioUrl"`
	CursorURL       *string `json:"cursorUrl"`
	ShowAudioButton bool    `gorm:"not null;default:false" json:"showAudioButton"`

	TextColor             *string        `json:"textColor"`
	IconColor             *string        `json:"iconColor"`
	ShowProfileCard       bool           `gorm:"not null" json:"showProfileCard"`
	ProfileCardColor      *string        `json:"profileCardColor"`
	ProfileCardOpacity    *float64       `json:"profileCardOpacity"`
	ShowViewCount         bool           `gorm:"not null;default:false" json:"showViewCount"`
	LinkStyle             string         `gorm:"size:16;not null;default:classic" json:"linkStyle"`
	LayoutType            string         `gorm:"size:16;not null;default:list" json:"layoutType"`
	TitleEffect           string         `gorm:"size:16;not null;default:none" json:"titleEffect"`
	UseStandardIconColors bool           `gorm:"not null;default:false" json:"useStandardIconColors"`
	GlowEffect            string         `gorm:"size:16;not null;default:none" json:"glowEffect"`
	ProfileRingType       string         `gorm:"size:16;not null;default:none" json:"profileRingType"`
	ProfileRingColors     pq.StringArray `gorm:"type:text[]" json:"profileRingColors"`

	ViewCount int64 `gorm:"not null;default:0" json:"viewCount"`

	Links  []Link  `gorm:"constraint:OnDelete:CASCADE" json:"links,omitempty"`
	Audios []Audio `gorm:"constraint:OnDelete:CASCADE" json:"audios,omitempty"`
	Blocks []Block `gorm:"constraint:OnDelete:CASCADE" json:"blocks,omitempty"`
}
