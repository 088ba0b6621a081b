package shared

import "errors"

// Error codes shared by every bounded context.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeDuplicateCommission    = "DUPLICATE_COMMISSION"
	CodeDuplicatePosting       = "DUPLICATE_POSTING"
	CodeEditLocked             = "EDIT_LOCKED"
	CodeIntegrityViolation     = "INTEGRITY_VIOLATION"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so sentinel values match
// errors built with a more specific message.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with the given message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidStateTransition creates an INVALID_STATE_TRANSITION error
func NewInvalidStateTransition(message string) *DomainError {
	return NewDomainError(CodeInvalidStateTransition, message)
}

// NewIntegrityViolation creates an INTEGRITY_VIOLATION error naming the blocking relationship
func NewIntegrityViolation(message string) *DomainError {
	return NewDomainError(CodeIntegrityViolation, message)
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation             = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Operation not allowed in current state")
	ErrDuplicateCommission    = NewDomainError(CodeDuplicateCommission, "A commission already exists for this loan")
	ErrDuplicatePosting       = NewDomainError(CodeDuplicatePosting, "A ledger entry with this posting key already exists")
	ErrEditLocked             = NewDomainError(CodeEditLocked, "Loan is locked for editing because its commission is no longer open")
	ErrIntegrityViolation     = NewDomainError(CodeIntegrityViolation, "Operation blocked by dependent records")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)

// IsCode reports whether err is a DomainError with the given code
func IsCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
