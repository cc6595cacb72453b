package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotify(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	wh := NewWebhook(server.URL)
	require.NoError(t, wh.Notify(context.Background(), "Messi dropped to 950000"))
	assert.Equal(t, "Messi dropped to 950000", got.Content)
}

func TestWebhookNotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	wh := NewWebhook(server.URL)
	err := wh.Notify(context.Background(), "msg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

// failingNotifier always errors, to prove Fanout keeps going
type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, string) error {
	return assert.AnError
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func TestFanoutContinuesPastFailure(t *testing.T) {
	rec := &recordingNotifier{}
	fan := Fanout{failingNotifier{}, rec}

	assert.NoError(t, fan.Notify(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, rec.messages)
}
