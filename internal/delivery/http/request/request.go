package request

type UpdateLinkRequest struct {
	URL string `json:"url"`
}
