// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// DataResponse wraps every successful payload.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse maps a field, or "message" for general failures, to its messages.
type ErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// Message builds an ErrorResponse with a single general message.
func Message(message string) ErrorResponse {
	return ErrorResponse{Errors: map[string][]string{"message": {message}}}
}
