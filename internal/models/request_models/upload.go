package request_models

type SignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=200"`
	ContentType string `json:"contentType" binding:"required"`
	UploadType  string `json:"uploadType" binding:"required,oneof=avatar background audio cursor video template_preview"`
}
