// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/contactly/contactly/internal/handler/dto"
	"github.com/contactly/contactly/internal/middleware"
	"github.com/contactly/contactly/internal/service"
)

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.Message("not found"))
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.Message("method not allowed"))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeData wraps payload in the {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, dto.DataResponse{Data: payload})
}

// writeMessage writes a single general error message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Message(message))
}

// decodeJSON reads the request body into v. An empty body leaves v at its
// zero value so field validation reports what is missing.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if ve, ok := service.IsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Errors: ve.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrContactNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "username or password wrong")
	case errors.Is(err, service.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	default:
		logger.Error("internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
