package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannel struct {
	connected bool
	err       error
}

func (s stubChannel) IsConnected(context.Context) (bool, error) { return s.connected, s.err }

func doHealth(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Handle(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr.Code, resp
}

func TestHealth_NothingConfigured(t *testing.T) {
	code, resp := doHealth(t, NewHealthHandler(nil, nil, nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "not configured", resp.Dependencies["database"])
	assert.Equal(t, "not configured", resp.Dependencies["whatsapp"])
}

func TestHealth_WhatsAppDisconnectedIsNotDegraded(t *testing.T) {
	code, resp := doHealth(t, NewHealthHandler(nil, nil, stubChannel{err: errors.New("timeout")}))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Contains(t, resp.Dependencies["whatsapp"], "disconnected")
}

func TestHealth_WhatsAppConnected(t *testing.T) {
	_, resp := doHealth(t, NewHealthHandler(nil, nil, stubChannel{connected: true}))
	assert.Equal(t, "connected", resp.Dependencies["whatsapp"])
}
