// Package httputil maps domain errors onto HTTP responses and provides the
// shared JSON response helpers used by all handlers.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "tradegate/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError translates a domain error into an HTTP status and JSON body.
// Internal errors are logged and masked; coded errors pass their message
// through as-is.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code)

	message := err.Error()
	if code == dErrors.CodeInternal {
		if logger != nil {
			logger.Error("internal error", "err", err)
		}
		message = "internal error"
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = message
	WriteJSON(w, status, body)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
