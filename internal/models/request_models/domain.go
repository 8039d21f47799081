package request_models

type AddDomainRequest struct {
	Domain string  `json:"domain" binding:"required,max=255"`
	PageID *string `json:"pageId" binding:"omitempty,uuid"`
}
