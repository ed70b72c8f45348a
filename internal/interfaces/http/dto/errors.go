package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the HTTP layer itself. Domain error codes come
// from shared.DomainError and map to statuses below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP statuses.
// Codes absent here fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Lookup failures -> 404
	"NOT_FOUND":      http.StatusNotFound,
	"USER_NOT_FOUND": http.StatusNotFound,
	"ITEM_NOT_FOUND": http.StatusNotFound,

	// Uniqueness and versioning conflicts -> 409
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Authentication failures -> 401
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,

	// Authorization failures -> 403
	"FORBIDDEN":       http.StatusForbidden,
	"TENANT_INACTIVE": http.StatusForbidden,
	"TENANT_MISMATCH": http.StatusForbidden,

	// Business rule violations on otherwise valid input -> 422
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":   http.StatusUnprocessableEntity,
	"CANNOT_DELETE":        http.StatusUnprocessableEntity,
	"NO_ITEMS":             http.StatusUnprocessableEntity,
	"NO_RECEIPT":           http.StatusUnprocessableEntity,
	"RECEIPT_NOT_UPLOADED": http.StatusUnprocessableEntity,
	"OVERLAPPING_LEAVE":    http.StatusUnprocessableEntity,
	"EMPLOYEE_TERMINATED":  http.StatusUnprocessableEntity,
	"ACCOUNT_DEACTIVATED":  http.StatusUnprocessableEntity,
	"ACCOUNT_INACTIVE":     http.StatusUnprocessableEntity,
	"USER_DEACTIVATED":     http.StatusUnprocessableEntity,
	"USER_LIMIT_REACHED":   http.StatusUnprocessableEntity,
	"LAST_ADMIN":           http.StatusUnprocessableEntity,
	"NOT_LOCKED":           http.StatusUnprocessableEntity,

	// Request shape problems -> 400
	"BAD_REQUEST":      http.StatusBadRequest,
	"INVALID_JSON":     http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,

	// Rate limiting -> 429
	"RATE_LIMITED": http.StatusTooManyRequests,

	// Infrastructure failures -> 500
	"INTERNAL_ERROR":      http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
	"TOKEN_ERROR":         http.StatusInternalServerError,
	"CORRUPT_OPTIONS":     http.StatusInternalServerError,
	"INVALID_CONFIG":      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// INVALID_*, NO_* and ALREADY_* codes not listed explicitly are input
// and state violations from aggregate constructors and transitions.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ALREADY_"), strings.HasPrefix(code, "NO_"):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
