package types

import (
	"errors"
	"net/http"

	appErr "github.com/collabhub/hub/pkg/errors"
)

// FromAppError converts a domain error to the wire error shape.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		out := &APIError{Code: string(ae.Code), Message: ae.Message}
		if f, ok := ae.Meta["field"].(string); ok {
			out.Field = f
		}
		return out
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}

// StatusFromError maps domain error codes onto HTTP status codes.
func StatusFromError(err error) int {
	var ae *appErr.AppError
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Code {
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeAlreadyExists, appErr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
