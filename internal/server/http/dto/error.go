package dto

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string   `json:"detail"`
	Errors []string `json:"errors,omitempty"`
}
