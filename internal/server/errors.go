package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/transcript"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as the JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all that is left is to log it.
		slog.Error("Failed to encode response", "error", err, "status", status)
	}
}

// writeErrorResponse logs err, when present, and writes message to the
// client as {"error": message}.
func writeErrorResponse(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		var appErr *errortypes.AppError
		if !errors.As(err, &appErr) {
			appErr = errortypes.InternalError(err, "request failed")
		}
		appErr.WithField("status_code", status).
			WithField("client_message", message)
		errortypes.LogError(nil, appErr)
	}

	writeJSON(w, status, ErrorResponse{Error: message})
}

// HandleBadRequest handles 400 Bad Request errors
func HandleBadRequest(w http.ResponseWriter, message string, err error) {
	writeErrorResponse(w, http.StatusBadRequest, message, err)
}

// HandleInternalError handles 500 Internal Server Error errors
func HandleInternalError(w http.ResponseWriter, message string, err error) {
	writeErrorResponse(w, http.StatusInternalServerError, message, err)
}

// HandleError inspects err and writes the matching response:
//
//   - validation errors are a 400 carrying only the validation message
//   - transcript fetch failures are a 400 carrying the fetch error verbatim
//   - everything else, summarization failures included, is a 500
func HandleError(w http.ResponseWriter, err error) {
	status, message := errorToResponse(err)
	writeErrorResponse(w, status, message, err)
}

// errorToResponse maps err to an HTTP status and client message.
func errorToResponse(err error) (int, string) {
	var appErr *errortypes.AppError
	if errors.As(err, &appErr) && appErr.Type == errortypes.ErrorTypeValidation {
		return http.StatusBadRequest, appErr.Message
	}

	var fetchErr *transcript.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadRequest, fetchErr.Error()
	}

	return http.StatusInternalServerError, err.Error()
}
