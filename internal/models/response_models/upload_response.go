package response_models

type SignedURLResponse struct {
	SignedURL    string `json:"signedUrl"`
	FinalFileURL string `json:"finalFileUrl"`
}
