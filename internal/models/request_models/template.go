package request_models

type CreateTemplateRequest struct {
	PageID          string   `json:"pageId" binding:"required,uuid"`
	Name            string   `json:"name" binding:"required,min=3,max=50"`
	Description     *string  `json:"description" binding:"omitempty,max=500"`
	PreviewImageURL *string  `json:"previewImageUrl" binding:"omitempty,url"`
	Tags            []string `json:"tags" binding:"required,min=1,max=5,dive,min=2,max=20"`
	Visibility      string   `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE UNLISTED"`
}

type ApplyTemplateRequest struct {
	PageID string `json:"pageId" binding:"required,uuid"`
}

type ListTemplatesQuery struct {
	Search      string
	CreatorName string
	Tags        []string
	SortBy      string
	Page        int
	Limit       int
}
