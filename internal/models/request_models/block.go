package request_models

import "linkbio/pkg/utils"

type CreateBlockRequest struct {
	Type      string                 `json:"type" binding:"required"`
	Content   map[string]interface{} `json:"content"`
	IsVisible *bool                  `json:"isVisible"`
}

type BlockPatch struct {
	Type      utils.Optional[string]                 `json:"type"`
	Content   utils.Optional[map[string]interface{}] `json:"content"`
	IsVisible utils.Optional[bool]                   `json:"isVisible"`
}

type ReorderBlocksRequest struct {
	Blocks []ReorderItem `json:"blocks" binding:"required,min=1,dive"`
}
