package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Healthy(t *testing.T) {
	h := NewHealthHandler("lendingdesk", map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
	})
	c, w := newTestContext(http.MethodGet, "/health")

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "lendingdesk", data["name"])
	assert.NotEmpty(t, data["go_version"])
	checks := data["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
}

func TestHealthHandler_Degraded(t *testing.T) {
	h := NewHealthHandler("lendingdesk", map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})
	c, w := newTestContext(http.MethodGet, "/health")

	h.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	checks := data["checks"].(map[string]any)
	require.Len(t, checks, 2)
	assert.Equal(t, "connection refused", checks["redis"])
}

func TestHealthHandler_NoChecks(t *testing.T) {
	h := NewHealthHandler("lendingdesk", nil)
	c, w := newTestContext(http.MethodGet, "/health")

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Nil(t, data["checks"])
}
