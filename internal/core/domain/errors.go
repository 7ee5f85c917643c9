package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrInternalServer = errors.New("internal server error")
	ErrTimeout        = errors.New("operation timed out")
)

// Authentication and authorization errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrForbidden          = errors.New("forbidden")
)

// Account claim errors
var (
	ErrInvalidClaimTarget = errors.New("invalid employee ID or employee is not active")
	ErrAlreadyClaimed     = errors.New("employee account already exists")
)

// Employee errors
var (
	ErrEmployeeIDImmutable = errors.New("employee ID cannot be changed")
)

// FieldError describes a single rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field level problems found before touching the store
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field problems were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// Add records a field problem.
func (v *ValidationError) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// OrNil returns v when it holds errors and nil otherwise, so callers can return it directly.
func (v *ValidationError) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// NewValidationError builds a ValidationError with a single field problem.
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
