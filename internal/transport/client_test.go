// internal/transport/client_test.go
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewbot/internal/common/config"
	stderrors "reviewbot/internal/common/errors"
	"reviewbot/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, serverURL string, maxRetries int) *GatewayClient {
	t.Helper()
	return NewGatewayClient(config.TransportConfig{
		GatewayBaseURL: serverURL,
		AuthToken:      "test-token",
		Timeout:        2000,
		MaxRetries:     maxRetries,
	}, logger.NewTestLogger(t))
}

// ==========================
// Send Tests
// ==========================

func TestSend_PostsMessage(t *testing.T) {
	var received outboundMessage
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)

	err := client.Send(context.Background(), "user-1@c.us", "hello there")
	require.NoError(t, err)
	assert.Equal(t, "user-1@c.us", received.To)
	assert.Equal(t, "hello there", received.Body)
	assert.Equal(t, "Bearer test-token", auth)
}

func TestSend_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)

	err := client.Send(context.Background(), "user-1@c.us", "hello")
	assert.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_ExhaustedRetriesReturnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "downstream broken", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)

	err := client.Send(context.Background(), "user-1@c.us", "hello")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeTransportSendFailed, stderrors.CodeOf(err))
}

func TestSend_CancelledContextStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Send(ctx, "user-1@c.us", "hello")
	assert.Error(t, err)
}
