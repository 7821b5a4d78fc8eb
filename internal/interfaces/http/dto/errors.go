package dto

import (
	"errors"
	"net/http"

	"github.com/backcat/backend/internal/domain/shared"
)

// Error code constants
// Format: ERR_<CATEGORY>

const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInternal     = "ERR_INTERNAL"
)

// kindHTTPStatus maps service error kinds to HTTP status codes.
// Validation failures are 422 rather than 400: the request parsed fine,
// the payload just violates a domain invariant.
var kindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusUnprocessableEntity,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindConflict:     http.StatusConflict,
	shared.KindAccessDenied: http.StatusForbidden,
	shared.KindConversion:   http.StatusInternalServerError,
	shared.KindInternal:     http.StatusInternalServerError,
}

var kindCode = map[shared.ErrorKind]string{
	shared.KindValidation:   ErrCodeValidation,
	shared.KindNotFound:     ErrCodeNotFound,
	shared.KindConflict:     ErrCodeConflict,
	shared.KindAccessDenied: ErrCodeForbidden,
	shared.KindConversion:   ErrCodeInternal,
	shared.KindInternal:     ErrCodeInternal,
}

// FromError maps an error to an HTTP status and error response. Internal
// causes are never echoed to the client; only the service message is.
func FromError(err error) (int, Response) {
	var se *shared.ServiceError
	if !errors.As(err, &se) {
		return http.StatusInternalServerError,
			NewErrorResponse(ErrCodeInternal, "internal server error")
	}

	status, ok := kindHTTPStatus[se.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	code, ok := kindCode[se.Kind]
	if !ok {
		code = ErrCodeInternal
	}

	message := se.Message
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	return status, NewErrorResponse(code, message)
}
