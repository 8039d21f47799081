package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	VisibilityPublic   = "PUBLIC"
	VisibilityPrivate  = "PRIVATE"
	VisibilityUnlisted = "UNLISTED"
)

type Tag struct {
	BaseModel
	Name string `gorm:"size:20;not null;uniqueIndex" json:"name"`
}

type Template struct {
	BaseModel
	CreatorID       uuid.UUID                            `gorm:"type:uuid;not null;index" json:"creatorId"`
	Creator         *User                                `gorm:"constraint:OnDelete:CASCADE" json:"creator,omitempty"`
	Name            string                               `gorm:"size:50;not null" json:"name"`
	Description     *string                              `gorm:"type:text" json:"description"`
	PreviewImageURL *string                              `json:"previewImageUrl"`
	Visibility      string                               `gorm:"size:16;not null;default:PUBLIC;index" json:"visibility"`
	PageData        datatypes.JSONType[TemplateSnapshot] `json:"pageData"`
	Tags            []Tag                                `gorm:"many2many:template_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Favorites       []TemplateFavorite                   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type TemplateFavorite struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_favorite"`
	User       User      `gorm:"constraint:OnDelete:CASCADE"`
	TemplateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_template_favorite"`
}

// TemplateSnapshot holds the presentational fields copied from a page.
// Nil fields were not captured and are left alone when applied.
type TemplateSnapshot struct {
	Title                 *string         `json:"title,omitempty"`
	Bio                   *string         `json:"bio,omitempty"`
	AvatarURL             *string         `json:"avatarUrl,omitempty"`
	Theme                 *string         `json:"theme,omitempty"`
	BackgroundType        *string         `json:"backgroundType,omitempty"`
	GradientDirection     *string         `json:"gradientDirection,omitempty"`
	GradientColorA        *string         `json:"gradientColorA,omitempty"`
	GradientColorB        *string         `json:"gradientColorB,omitempty"`
	BackgroundURL         *string         `json:"backgroundUrl,omitempty"`
	BackgroundColor       *string         `json:"backgroundColor,omitempty"`
	BackgroundVideoURL    *string         `json:"backgroundVideoUrl,omitempty"`
	Location              *string         `json:"location,omitempty"`
	CursorURL             *string         `json:"cursorUrl,omitempty"`
	TextColor             *string         `json:"textColor,omitempty"`
	IconColor             *string         `json:"iconColor,omitempty"`
	ProfileCardColor      *string         `json:"profileCardColor,omitempty"`
	ProfileCardOpacity    *float64        `json:"profileCardOpacity,omitempty"`
	ShowProfileCard       *bool           `json:"showProfileCard,omitempty"`
	LinkStyle             *string         `json:"linkStyle,omitempty"`
	LayoutType            *string         `json:"layoutType,omitempty"`
	TitleEffect           *string         `json:"titleEffect,omitempty"`
	GlowEffect            *string         `json:"glowEffect,omitempty"`
	UseStandardIconColors *bool           `json:"useStandardIconColors,omitempty"`
	ProfileRingType       *string         `json:"profileRingType,omitempty"`
	ProfileRingColors     []string        `json:"profileRingColors,omitempty"`
	Links                 []SnapshotLink  `json:"links,omitempty"`
	Audios                []SnapshotAudio `json:"audios,omitempty"`
}

type SnapshotLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

type SnapshotAudio struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	CoverURL *string `json:"coverUrl,omitempty"`
	Order    int     `json:"order"`
}
