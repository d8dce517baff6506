package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	internal_errors "github.com/itchan-dev/boardsync/shared/errors"
	"github.com/itchan-dev/boardsync/shared/logger"
)

// validator caches struct metadata, so one instance is shared
var validate = validator.New(validator.WithRequiredStructEnabled())

// StatusCode maps an error returned by the service layer to an http status.
// Unknown errors are internal errors.
func StatusCode(err error) int {
	var withCode *internal_errors.ErrorWithStatusCode
	switch {
	case errors.As(err, &withCode):
		return withCode.StatusCode
	case errors.Is(err, internal_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internal_errors.ErrCrossBoardMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, internal_errors.ErrConflictRetryExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		// don't leak storage details
		logger.Log.Error("internal error", "error", err)
		http.Error(w, "Internal error", code)
		return
	}
	if code == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	http.Error(w, err.Error(), code)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return &internal_errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400}
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body validation failed", "error", err)
		return &internal_errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400}
	}
	return nil
}
