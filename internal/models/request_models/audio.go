package request_models

import "linkbio/pkg/utils"

type CreateAudioRequest struct {
	Title      string  `json:"title" binding:"required,min=1,max=100"`
	URL        string  `json:"url" binding:"required,url"`
	SourceType string  `json:"sourceType" binding:"omitempty,oneof=upload external"`
	CoverURL   *string `json:"coverUrl" binding:"omitempty,url"`
}

type AudioPatch struct {
	Title    utils.Optional[string] `json:"title"`
	URL      utils.Optional[string] `json:"url"`
	CoverURL utils.Optional[string] `json:"coverUrl"`
}
