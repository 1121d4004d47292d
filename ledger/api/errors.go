package api

import (
	"encoding/json"
	"net/http"

	"github.com/andrebq/abacus/internal/logutil"
)

type (
	// apiError is the only error shape that reaches a client
	apiError struct {
		status  int
		message string
		cause   error
	}
)

func (a *apiError) Error() string {
	if a.cause != nil {
		return a.message + ": " + a.cause.Error()
	}
	return a.message
}

func (a *apiError) Unwrap() error {
	return a.cause
}

func validationError(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func conflictError(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func authError(msg string) *apiError {
	return &apiError{status: http.StatusUnauthorized, message: msg}
}

// internalError keeps the cause for the logs, clients only see a generic message.
func internalError(cause error) *apiError {
	return &apiError{status: http.StatusInternalServerError, message: "Internal server error", cause: cause}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err *apiError) {
	if err.status >= http.StatusInternalServerError {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err.cause).Str("path", r.URL.Path).Msg("Request failed")
	}
	writeJSON(w, err.status, map[string]string{"error": err.message})
}
