package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeTimeout, http.StatusServiceUnavailable},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestNotFoundWrap(t *testing.T) {
	sentinel := errors.New("role not found")
	err := fmt.Errorf("lookup: %w", NotFoundWrap(sentinel, "role", "42"))

	assert.ErrorIs(t, err, sentinel)
	assert.True(t, IsCode(err, ErrCodeNotFound))
	assert.Equal(t, "role not found with ID: 42", GetMessage(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "x %d", 1))
}

func TestGetMessage_HidesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", GetMessage(errors.New("pq: password authentication failed")))
	assert.Equal(t, "internal server error", GetMessage(InternalWrap(errors.New("boom"), "failed to query")))
	assert.Equal(t, ErrCodeInternal, GetCode(errors.New("plain")))
	assert.Nil(t, GetDetails(errors.New("plain")))
}

func TestDetails(t *testing.T) {
	err := ValidationFailed(map[string]interface{}{"name": "is required"}).WithDetail("email", "is required")
	require.Equal(t, ErrCodeValidationFailed, err.Code)
	assert.Equal(t, map[string]interface{}{"name": "is required", "email": "is required"}, GetDetails(err))
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatusCode())

	limited := RateLimitExceeded("3")
	assert.Equal(t, "3", limited.Details["retry_after"])
	assert.Nil(t, RateLimitExceeded("").Details)
}
