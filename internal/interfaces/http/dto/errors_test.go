package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationLength, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusBadRequest},
		{ErrCodeEmailNotConfirmed, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeUnavailable, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"PRODUCT_NOT_FOUND", ErrCodeNotFound},
		{"USER_ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"EMAIL_NOT_CONFIRMED", ErrCodeEmailNotConfirmed},
		{"PASSWORD_MISMATCH", ErrCodeValidation},
		{"WEAK_PASSWORD", ErrCodeValidationLength},
		{"OUT_OF_STOCK", ErrCodeUnavailable},
		{"INTERNAL_ERROR", ErrCodeInternal},
		// Already normalized codes pass through
		{ErrCodeNotFound, ErrCodeNotFound},
		{"SOMETHING_ELSE", "SOMETHING_ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryMappedCodeHasStatus(t *testing.T) {
	for domainCode, code := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "no status for %s (from %s)", code, domainCode)
	}
}

func TestResponseJSON(t *testing.T) {
	t.Run("redirect", func(t *testing.T) {
		body, err := json.Marshal(NewRedirectResponse(nil, "/dashboard"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"redirect":"/dashboard"}`, string(body))
	})

	t.Run("validation error", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-1",
			[]ValidationDetail{{Field: "email", Message: "This field is required"}})
		body, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": false,
			"error": {
				"code": "ERR_VALIDATION",
				"message": "Request validation failed",
				"request_id": "req-1",
				"details": [{"field": "email", "message": "This field is required"}]
			}
		}`, string(body))
	})
}
