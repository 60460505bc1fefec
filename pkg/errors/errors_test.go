package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error wins", New(ErrSourceMisconfigured, http.StatusInternalServerError, "no db"), http.StatusInternalServerError},
		{"wrapped unavailable", fmt.Errorf("loading: %w", ErrSourceUnavailable), http.StatusServiceUnavailable},
		{"invalid record", fmt.Errorf("%w: record 3", ErrInvalidRecord), http.StatusServiceUnavailable},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"not supported", ErrNotSupported, http.StatusConflict},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestAppErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("building source: %w", Newf(ErrSourceMisconfigured, 500, "unknown kind %q", "mongo"))
	assert.ErrorIs(t, err, ErrSourceMisconfigured)
	assert.Contains(t, err.Error(), `unknown kind "mongo"`)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "no db", PublicMessage(New(ErrSourceMisconfigured, 500, "no db")))
	assert.Equal(t, "invalid input", PublicMessage(fmt.Errorf("%w: record 2: phone", ErrInvalidInput)))
	assert.Equal(t, "internal error", PublicMessage(errors.New("pq: password authentication failed")))
}
