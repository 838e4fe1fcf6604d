package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/decor-manager/internal/domain"
)

func TestNewWebhookPusherBlankURL(t *testing.T) {
	assert.Nil(t, NewWebhookPusher("  ", nil))
}

func TestWebhookPusherPostsAlert(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pusher := NewWebhookPusher(srv.URL, nil)
	alert := domain.Alert{ID: "a1", Type: domain.AlertOverdue, Title: "Overdue Follow-up", Urgent: true}
	require.NoError(t, pusher.Push(context.Background(), alert))

	assert.Equal(t, "alert.overdue", got.Event)
	assert.Equal(t, "a1", got.Alert.ID)
	assert.True(t, got.Alert.Urgent)
}

func TestWebhookPusherTripsBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	pusher := NewWebhookPusher(srv.URL, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := pusher.Push(ctx, domain.Alert{ID: "a"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrWebhookUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, pusher.State())

	assert.ErrorIs(t, pusher.Push(ctx, domain.Alert{ID: "a"}), ErrWebhookUnavailable)
	assert.Equal(t, int32(3), hits.Load())
}

func TestWebhookPusherHonoursCancelledContext(t *testing.T) {
	pusher := NewWebhookPusher("http://127.0.0.1:1", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pusher.Push(ctx, domain.Alert{}), context.Canceled)
}
