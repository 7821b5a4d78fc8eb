package shared

import "errors"

// ErrorKind classifies a ServiceError into one of the failure categories
// every repository operation is allowed to surface.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"    // input fails a domain invariant
	KindNotFound     ErrorKind = "NOT_FOUND"     // no matching active, owned row
	KindConflict     ErrorKind = "CONFLICT"      // uniqueness/constraint violation or date collision
	KindConversion   ErrorKind = "CONVERSION"    // persisted row could not be mapped back to a domain object
	KindAccessDenied ErrorKind = "ACCESS_DENIED" // credential failure at the authentication boundary
	KindInternal     ErrorKind = "INTERNAL"      // anything else
)

// ServiceError is the only error type that crosses a repository boundary.
// Infrastructure errors (gorm, redis, aws) are wrapped as the cause and
// never inspected by callers.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

func newServiceError(kind ErrorKind, message string, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, cause: cause}
}

// NewValidationError reports input that fails a domain invariant.
func NewValidationError(message string, cause error) *ServiceError {
	return newServiceError(KindValidation, message, cause)
}

// NewNotFoundError reports a target that does not exist, is soft-deleted,
// or is not owned by the acting user. The three cases are deliberately
// indistinguishable.
func NewNotFoundError(message string, cause error) *ServiceError {
	return newServiceError(KindNotFound, message, cause)
}

// NewConflictError reports a store constraint violation or a booking date
// collision.
func NewConflictError(message string, cause error) *ServiceError {
	return newServiceError(KindConflict, message, cause)
}

// NewConversionError reports a successful store write whose result could
// not be mapped back to a domain object. This is a server-side mapping
// bug, not a caller fault.
func NewConversionError(message string, cause error) *ServiceError {
	return newServiceError(KindConversion, message, cause)
}

// NewAccessDeniedError reports a credential or ownership failure at the
// authentication boundary.
func NewAccessDeniedError(message string, cause error) *ServiceError {
	return newServiceError(KindAccessDenied, message, cause)
}

// NewInternalError reports any unexpected failure.
func NewInternalError(message string, cause error) *ServiceError {
	return newServiceError(KindInternal, message, cause)
}

// KindOf returns the kind of err, or KindInternal when err is not a
// ServiceError.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == kind
}

// IsNotFound reports whether err is a not-found ServiceError.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConflict reports whether err is a conflict ServiceError.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }

// IsValidation reports whether err is a validation ServiceError.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }
