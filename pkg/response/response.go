// Package response writes JSON bodies.
//
// Errors always use the {status, message} envelope. Successful admin
// endpoints return flat objects.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/shopadmin/pkg/logger"
)

type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as-is with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("response: encode failed", "error", err)
	}
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error sends a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, envelope{Status: status, Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// InternalError hides the cause; callers log it with the request id.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}
