package response_models

import "linkbio/internal/models/db_models"

type TemplateResponse struct {
	db_models.Template
	CreatorName   string `json:"creatorName"`
	FavoriteCount int64  `json:"favoriteCount"`
	IsFavorited   bool   `json:"isFavorited"`
}

type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

type TagUsage struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
