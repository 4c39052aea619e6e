package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"swyftx-slam/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackClient_Announce(t *testing.T) {
	var (
		mu       sync.Mutex
		received []webhookPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var payload webhookPayload
		assert.NoError(t, json.Unmarshal(raw, &payload))

		mu.Lock()
		received = append(received, payload)
		mu.Unlock()

		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewSlackClient(&config.Config{SlackWebhook: srv.URL}, zerolog.Nop())
	require.True(t, client.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Announce(ctx, "🏓 Alice smashed Bob 11-3"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "🏓 Alice smashed Bob 11-3", received[0].Text)
}

func TestSlackClient_DisabledIsNoOp(t *testing.T) {
	client := NewSlackClient(&config.Config{}, zerolog.Nop())
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Announce(context.Background(), "ignored"))
}

func TestSlackClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no_service"))
	}))
	defer srv.Close()

	client := NewSlackClient(&config.Config{SlackWebhook: srv.URL}, zerolog.Nop())
	err := client.Announce(context.Background(), "hello")
	assert.ErrorContains(t, err, "404")
}

func TestSlackClient_RateLimited(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewSlackClient(&config.Config{SlackWebhook: srv.URL}, zerolog.Nop())

	err := client.Announce(context.Background(), "first")
	assert.ErrorContains(t, err, "429")
	assert.WithinDuration(t, time.Now().Add(30*time.Second), client.RetryAfter(), 5*time.Second)

	err = client.Announce(context.Background(), "second")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, calls)
}
