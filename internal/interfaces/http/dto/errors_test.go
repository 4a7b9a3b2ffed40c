package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{"domain not found", "NOT_FOUND", ErrCodeNotFound},
		{"domain already exists", "ALREADY_EXISTS", ErrCodeConflict},
		{"domain no available account", "NO_AVAILABLE_ACCOUNT", ErrCodeNoAvailableAccount},
		{"domain invalid transition", "INVALID_TRANSITION", ErrCodeInvalidTransition},
		{"domain concurrent modification", "CONCURRENT_MODIFICATION", ErrCodeConcurrentModification},
		{"domain payment not validated", "PAYMENT_NOT_VALIDATED", ErrCodePaymentNotValidated},
		{"already normalized", ErrCodeForbidden, ErrCodeForbidden},
		{"entity validation prefix", "INVALID_HOLDER", ErrCodeValidation},
		{"limit exceeded suffix", "DAILY_LIMIT_EXCEEDED", ErrCodeUnprocessable},
		{"payment state prefix", "PAYMENT_ALREADY_VALIDATED", ErrCodeUnprocessable},
		{"unknown code falls back", "SOMETHING_ELSE", ErrCodeInternal},
		{"empty code falls back", "", ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.code))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"validation", ErrCodeValidation, http.StatusBadRequest},
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"conflict", ErrCodeConflict, http.StatusConflict},
		{"no available account", ErrCodeNoAvailableAccount, http.StatusUnprocessableEntity},
		{"account not found", ErrCodeAccountNotFound, http.StatusNotFound},
		{"invalid transition", ErrCodeInvalidTransition, http.StatusUnprocessableEntity},
		{"concurrent modification", ErrCodeConcurrentModification, http.StatusConflict},
		{"audit write failure", ErrCodeAuditWriteFailure, http.StatusInternalServerError},
		{"unknown defaults to 500", "NO_SUCH_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 2, 20, 45)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	// zero page size must not panic
	resp = NewSuccessResponseWithMeta(nil, 1, 0, 10)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "order not found", "req-123")
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
