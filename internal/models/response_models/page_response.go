package response_models

import "linkbio/internal/models/db_models"

type PageListResponse struct {
	Pages       []db_models.Page `json:"pages"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

type PublicPageResponse struct {
	db_models.Page
	User PublicProfile `json:"user"`
}
