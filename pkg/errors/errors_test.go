package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("lat is required"), http.StatusBadRequest},
		{"not found", NewNotFoundError("no results"), http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError("database authentication failed", nil), http.StatusUnauthorized},
		{"unavailable", NewUnavailableError("database connection failed", nil), http.StatusServiceUnavailable},
		{"external", NewExternalError("geocoder failed", nil), http.StatusBadGateway},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("search: %w", NewUnavailableError("down", nil)), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := NewInternalError("decode failed", fmt.Errorf("secret connection string"))
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(fmt.Errorf("raw")))

	unavailable := NewUnavailableError("database connection failed", fmt.Errorf("dial tcp 10.0.0.1:27017"))
	assert.Equal(t, "database connection failed", PublicMessage(unavailable))
}

func TestAppError_UnwrapAndIsType(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := fmt.Errorf("outer: %w", NewExternalError("upstream", cause))

	assert.True(t, IsType(err, ErrorTypeExternal))
	assert.False(t, IsType(err, ErrorTypeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "EXTERNAL: upstream: root cause")
}
