package response_models

type DomainVerification struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}
