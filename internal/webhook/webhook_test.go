package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-scout/internal/model"
)

func TestNotifyPostsPayload(t *testing.T) {
	var received model.WebhookPayload
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	n.Notify(context.Background(), "task-1", model.WebhookPayload{
		Status:  model.TaskStatusSuccess,
		Message: "Successfully extracted contact info",
		Result: &model.ScrapeResult{
			EntityName:   "Acme Corp",
			OfficialSite: "https://acme.com",
		},
	})

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, model.TaskStatusSuccess, received.Status)
	require.NotNil(t, received.Result)
	assert.Equal(t, "Acme Corp", received.Result.EntityName)
}

func TestNotifySwallowsEndpointError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	// Must not panic or block; failure is logged only.
	n.Notify(context.Background(), "task-1", model.WebhookPayload{
		Status:  model.TaskStatusFailure,
		Message: "Official site not found by LLM",
	})
}

func TestNotifySwallowsUnreachableEndpoint(t *testing.T) {
	n := NewNotifier("http://127.0.0.1:1/hook")
	n.Notify(context.Background(), "task-1", model.WebhookPayload{
		Status:  model.TaskStatusFailure,
		Message: "No search results found",
	})
}

func TestNotifyDisabledWithoutURL(t *testing.T) {
	n := NewNotifier("")
	assert.False(t, n.Enabled())
	n.Notify(context.Background(), "task-1", model.WebhookPayload{Status: model.TaskStatusSuccess})
}
