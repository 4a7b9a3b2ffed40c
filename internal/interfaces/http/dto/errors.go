package dto

import (
	"net/http"
	"strings"
)

// API error codes. Handlers translate domain error codes into these
// before writing the envelope so the wire surface stays stable even if
// internal codes change.
const (
	ErrCodeValidation    = "ERR_VALIDATION"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeConflict      = "ERR_CONFLICT"
	ErrCodeUnauthorized  = "ERR_UNAUTHORIZED"
	ErrCodeForbidden     = "ERR_FORBIDDEN"
	ErrCodeUnprocessable = "ERR_UNPROCESSABLE"
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeRateLimited   = "ERR_RATE_LIMITED"

	// Domain-specific codes surfaced verbatim so clients can branch on
	// business outcomes, not just HTTP classes.
	ErrCodeNoAvailableAccount     = "ERR_NO_AVAILABLE_ACCOUNT"
	ErrCodeAccountNotFound        = "ERR_ACCOUNT_NOT_FOUND"
	ErrCodeInvalidTransition      = "ERR_INVALID_TRANSITION"
	ErrCodeConcurrentModification = "ERR_CONCURRENT_MODIFICATION"
	ErrCodeInvalidTier            = "ERR_INVALID_TIER"
	ErrCodePaymentNotValidated    = "ERR_PAYMENT_NOT_VALIDATED"
	ErrCodeAuditWriteFailure      = "ERR_AUDIT_WRITE_FAILURE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeUnprocessable: http.StatusUnprocessableEntity,
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeRateLimited:   http.StatusTooManyRequests,

	ErrCodeNoAvailableAccount:     http.StatusUnprocessableEntity,
	ErrCodeAccountNotFound:        http.StatusNotFound,
	ErrCodeInvalidTransition:      http.StatusUnprocessableEntity,
	ErrCodeConcurrentModification: http.StatusConflict,
	ErrCodeInvalidTier:            http.StatusBadRequest,
	ErrCodePaymentNotValidated:    http.StatusUnprocessableEntity,
	ErrCodeAuditWriteFailure:      http.StatusInternalServerError,
}

// DomainErrorCodeMapping translates internal domain error codes to API
// error codes. Codes missing from this table fall through to
// ErrCodeInternal.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeConflict,
	"INVALID_INPUT":           ErrCodeValidation,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"INVALID_STATE":           ErrCodeUnprocessable,
	"NO_AVAILABLE_ACCOUNT":    ErrCodeNoAvailableAccount,
	"ACCOUNT_NOT_FOUND":       ErrCodeAccountNotFound,
	"INVALID_TRANSITION":      ErrCodeInvalidTransition,
	"CONCURRENT_MODIFICATION": ErrCodeConcurrentModification,
	"INVALID_TIER":            ErrCodeInvalidTier,
	"AUDIT_WRITE_FAILURE":     ErrCodeAuditWriteFailure,
	"PAYMENT_NOT_VALIDATED":   ErrCodePaymentNotValidated,
}

// NormalizeErrorCode maps a domain error code onto the API surface.
// Entity validation codes (INVALID_AMOUNT, INVALID_HOLDER, ...) and
// counter ceiling codes follow naming conventions, so unmapped codes
// are classified by prefix before falling back to internal.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeValidation
	case strings.HasSuffix(code, "_LIMIT_EXCEEDED"):
		return ErrCodeUnprocessable
	case strings.HasPrefix(code, "PAYMENT_"):
		return ErrCodeUnprocessable
	}
	return ErrCodeInternal
}

// GetHTTPStatus returns the HTTP status code for an API error code.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
