package response_models

type CheckoutResponse struct {
	URL string `json:"url"`
}
