package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the API error envelope with a single message.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": map[string][]string{"message": {message}},
	})
}
