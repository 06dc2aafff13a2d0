package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeInvalidInput, "depth %d exceeds %d", 7, 5)
	assert.Equal(t, ErrCodeInvalidInput, err.Code)
	assert.Equal(t, "depth 7 exceeds 5", err.Message)
	assert.Equal(t, "INVALID_INPUT: depth 7 exceeds 5", err.Error())

	cause := errors.New("connection reset")
	wrapped := Wrap(ErrCodeNetwork, cause, "paper lookup failed")
	assert.Equal(t, "NETWORK_ERROR: paper lookup failed: connection reset", wrapped.Error())
	assert.Same(t, cause, errors.Unwrap(wrapped))
	assert.ErrorIs(t, wrapped, cause)
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", New(ErrCodeNotFound, "task not found"), ErrCodeNotFound},
		{"outermost wins", Wrap(ErrCodeConflict, New(ErrCodeNotFound, "inner"), "outer"), ErrCodeConflict},
		{"behind fmt wrap", fmt.Errorf("handler: %w", New(ErrCodeInProgress, "running")), ErrCodeInProgress},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			if tt.code != "" {
				assert.True(t, Is(tt.err, tt.code))
			}
			assert.False(t, Is(tt.err, ErrCodeUnsupported))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "no graph loaded",
		UserMessage(Wrap(ErrCodeNotFound, errors.New("sentinel"), "no graph loaded")))
	assert.Equal(t, "plain error", UserMessage(errors.New("plain error")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeConflict, http.StatusBadRequest},
		{ErrCodeUnsupported, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInProgress, http.StatusAccepted},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(New(tt.code, "x")))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}
