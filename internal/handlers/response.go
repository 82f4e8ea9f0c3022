package handlers

// ErrorResponse is the uniform error body for every failed request.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: user not found
	Error string `json:"error"`
}
