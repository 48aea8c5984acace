package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		handler(w, r)
	}))
	return NewClient(srv.URL, "secret", "loja 1", 5*time.Second, nil), srv.Close
}

func TestIsConnected(t *testing.T) {
	c, done := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instance/connectionState/loja 1", r.URL.Path)
		w.Write([]byte(`{"instance": {"instanceName": "loja 1", "state": "open"}}`))
	})
	defer done()

	ok, err := c.IsConnected(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsConnected_Closed(t *testing.T) {
	c, done := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"instance": {"state": "close"}}`))
	})
	defer done()

	ok, err := c.IsConnected(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckNumber(t *testing.T) {
	c, done := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in checkNumbersInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		if in.Numbers[0] == "5519999990001" {
			w.Write([]byte(`[{"exists": true, "jid": "5519999990001@s.whatsapp.net", "number": "5519999990001"}]`))
			return
		}
		w.Write([]byte(`[{"exists": false, "jid": "", "number": "` + in.Numbers[0] + `"}]`))
	})
	defer done()

	check, err := c.CheckNumber(context.Background(), "5519999990001")
	require.NoError(t, err)
	assert.True(t, check.Reachable)
	assert.Equal(t, "5519999990001@s.whatsapp.net", check.ChannelAddress)

	check, err = c.CheckNumber(context.Background(), "5519000000000")
	require.NoError(t, err)
	assert.False(t, check.Reachable)
	assert.Empty(t, check.ChannelAddress)
}

func TestSendText(t *testing.T) {
	c, done := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var in sendTextInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "5519999990001@s.whatsapp.net", in.Number)
		assert.Equal(t, "Olá!", in.Text)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"key": {"remoteJid": "5519999990001@s.whatsapp.net", "fromMe": true, "id": "BAE5F"}, "status": "PENDING"}`))
	})
	defer done()

	id, err := c.SendText(context.Background(), "5519999990001@s.whatsapp.net", "Olá!")
	require.NoError(t, err)
	assert.Equal(t, "BAE5F", id)
}

func TestSendText_APIError(t *testing.T) {
	c, done := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status": 400, "error": "Bad Request"}`))
	})
	defer done()

	_, err := c.SendText(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad Request")
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "", "", time.Second, nil)

	_, err := c.IsConnected(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.CheckNumber(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.SendText(context.Background(), "1", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
