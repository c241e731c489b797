package middleware

import (
	"encoding/json"
	"net/http"

	"go-expediente-dashboard/internal/model"
)

// writeFailure emits the API error envelope the handlers use, so responses
// rejected by middleware look the same to the browser as handler errors.
func writeFailure(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
