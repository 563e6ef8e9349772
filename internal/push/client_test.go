package push

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

func invitation() Message {
	return Message{
		To: "device-token",
		Data: Data{
			Action:        "invitation",
			Title:         "New Invitation",
			Message:       "alice invited you",
			ReservationID: "r1",
			Status:        "PENDING",
			Timestamp:     "2024-06-01T10:00:00",
		},
	}
}

func TestSend(t *testing.T) {
	var (
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"success":1,"failure":0,"results":[{"message_id":"m1"}]}`))
	}))
	defer srv.Close()

	c := New("secret", srv.URL, 100)
	require.NoError(t, c.Send(context.Background(), invitation()))

	assert.Equal(t, "key=secret", gotAuth)
	assert.Equal(t, "device-token", gotBody["to"])
	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "invitation", data["action"])
	assert.Equal(t, "New Invitation", data["title"])
	assert.Equal(t, "r1", data["id_reservation"])
	assert.Equal(t, "PENDING", data["status"])
}

func TestSendFailures(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()
		assert.Error(t, New("bad", srv.URL, 100).Send(context.Background(), invitation()))
	})

	t.Run("message rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":0,"failure":1,"results":[{"error":"NotRegistered"}]}`))
		}))
		defer srv.Close()
		err := New("secret", srv.URL, 100).Send(context.Background(), invitation())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NotRegistered")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()
		assert.Error(t, New("secret", url, 100).Send(context.Background(), invitation()))
	})
}

func TestSendIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":1}`))
	}))
	defer srv.Close()

	c := New("secret", srv.URL, 1)
	require.NoError(t, c.Send(context.Background(), invitation()))

	// The burst is spent, so the next message has to wait longer than the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, c.Send(ctx, invitation()))
}
