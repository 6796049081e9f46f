package models

// ErrorResponse is the uniform error body every handler returns.
type ErrorResponse struct {
	Status  int    `json:"status"`  // HTTP status code
	Message string `json:"message"` // error detail
}
