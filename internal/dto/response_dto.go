package dto

// ErrorResponse is the uniform error payload for all endpoints.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse is used for operations whose result is a confirmation.
type MessageResponse struct {
	Message string `json:"message"`
	Note    string `json:"note,omitempty"`
}
