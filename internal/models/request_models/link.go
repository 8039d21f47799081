package request_models

import (
	"time"

	"linkbio/pkg/utils"
)

type CreateLinkRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	URL         string     `json:"url" binding:"required,url"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type LinkPatch struct {
	Title       utils.Optional[string]    `json:"title"`
	URL         utils.Optional[string]    `json:"url"`
	IsActive    utils.Optional[bool]      `json:"isActive"`
	ScheduledAt utils.Optional[time.Time] `json:"scheduledAt"`
	ExpiresAt   utils.Optional[time.Time] `json:"expiresAt"`
}

type ReorderItem struct {
	ID    string `json:"id" binding:"required,uuid"`
	Order int    `json:"order" binding:"min=0"`
}

type ReorderRequest struct {
	Items []ReorderItem `json:"items" binding:"required,min=1,dive"`
}
