package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/jsongraph/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errors.GetCode(err), errors.Detail(err)
	if code == "" {
		// Uncoded errors are not meant for clients.
		code, msg = errors.ErrCodeInternal, "internal server error"
	}
	writeJSON(w, statusFor(code), errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: requestID(r),
	}})
}

// statusFor maps an error code to its HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidJSON, errors.ErrCodeEmptyInput, errors.ErrCodeInvalidGraph:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidQuery, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDirection, errors.ErrCodeInvalidEngine, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}
