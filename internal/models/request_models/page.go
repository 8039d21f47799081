package request_models

import "linkbio/pkg/utils"

type CreatePageRequest struct {
	Slug  string `json:"slug" binding:"required,min=3,max=64"`
	Title string `json:"title" binding:"max=120"`
}

// PagePatch lists every editable page field. See utils.Optional for the
// absent / null / value semantics.
type PagePatch struct {
	Slug      utils.Optional[string] `json:"slug"`
	Title     utils.Optional[string] `json:"title"`
	Bio       utils.Optional[string] `json:"bio"`
	AvatarURL utils.Optional[string] `json:"avatarUrl"`
	Theme     utils.Optional[string] `json:"theme"`

	BackgroundType     utils.Optional[string] `json:"backgroundType"`
	GradientDirection  utils.Optional[string] `json:"gradientDirection"`
	GradientColorA     utils.Optional[string] `json:"gradientColorA"`
	GradientColorB     utils.Optional[string] `json:"gradientColorB"`
	BackgroundURL      utils.Optional[string] `json:"backgroundUrl"`
	BackgroundColor    utils.Optional[string] `json:"backgroundColor"`
	BackgroundVideoURL utils.Optional[string] `json:"backgroundVideoUrl"`

	Location        utils.Optional[string] `json:"location"`
	AudioURL        utils.Optional[string] `json:"audioUrl"`
	CursorURL       utils.Optional[string] `json:"cursorUrl"`
	ShowAudioButton utils.Optional[bool]   `json:"showAudioButton"`

	TextColor             utils.Optional[string]   `json:"textColor"`
	IconColor             utils.Optional[string]   `json:"iconColor"`
	ShowProfileCard       utils.Optional[bool]     `json:"showProfileCard"`
	ProfileCardColor      utils.Optional[string]   `json:"profileCardColor"`
	ProfileCardOpacity    utils.Optional[float64]  `json:"profileCardOpacity"`
	ShowViewCount         utils.Optional[bool]     `json:"showViewCount"`
	LinkStyle             utils.Optional[string]   `json:"linkStyle"`
	LayoutType            utils.Optional[string]   `json:"layoutType"`
	TitleEffect           utils.Optional[string]   `json:"titleEffect"`
	UseStandardIconColors utils.Optional[bool]     `json:"useStandardIconColors"`
	GlowEffect            utils.Optional[string]   `json:"glowEffect"`
	ProfileRingType       utils.Optional[string]   `json:"profileRingType"`
	ProfileRingColors     utils.Optional[[]string] `json:"profileRingColors"`
}
