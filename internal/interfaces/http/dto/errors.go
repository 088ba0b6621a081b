package dto

import (
	"net/http"

	"github.com/lendingdesk/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes are used as they are.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:             http.StatusBadRequest,
	shared.CodeNotFound:               http.StatusNotFound,
	shared.CodeInvalidStateTransition: http.StatusUnprocessableEntity,
	shared.CodeDuplicateCommission:    http.StatusConflict,
	shared.CodeDuplicatePosting:       http.StatusConflict,
	shared.CodeEditLocked:             http.StatusLocked,
	shared.CodeIntegrityViolation:     http.StatusConflict,
	shared.CodeConcurrencyConflict:    http.StatusConflict,
	shared.CodeUnauthorized:           http.StatusUnauthorized,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeInvalidToken:    http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
