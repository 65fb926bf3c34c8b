package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatapproval/internal/logging"
	"github.com/viant/chatapproval/model"
)

type webhook struct {
	mux      sync.Mutex
	payloads []map[string]interface{}
	status   int
}

func (w *webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	payload := map[string]interface{}{}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	w.mux.Lock()
	w.payloads = append(w.payloads, payload)
	status := w.status
	w.mux.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	rw.WriteHeader(status)
}

func (w *webhook) received() []map[string]interface{} {
	w.mux.Lock()
	defer w.mux.Unlock()
	return append([]map[string]interface{}(nil), w.payloads...)
}

func newTestDispatcher(t *testing.T, config Config) *Dispatcher {
	dispatcher, err := New(WithConfig(config), WithLogger(logging.Discard()))
	require.NoError(t, err)
	return dispatcher
}

func TestNewPayload(t *testing.T) {
	reason := "wrong dates"
	testCases := []struct {
		description string
		response    *model.Response
		expected    *Payload
	}{
		{
			description: "approved",
			response:    &model.Response{State: model.StateApproved},
			expected:    &Payload{OrderID: "INV-1", User: "6281", Status: StatusYes},
		},
		{
			description: "rejected with reason",
			response:    &model.Response{State: model.StateRejected, RejectReason: &reason},
			expected:    &Payload{OrderID: "INV-1", User: "6281", Status: StatusNo, RejectReason: &reason},
		},
		{
			description: "rejected without reason",
			response:    &model.Response{State: model.StateRejected},
			expected:    &Payload{OrderID: "INV-1", User: "6281", Status: StatusNo},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, NewPayload("INV-1", "6281@s.whatsapp.net", tc.response))
		})
	}
}

func TestPayload_JSON(t *testing.T) {
	data, err := json.Marshal(&Payload{OrderID: "INV-1", User: "6281", Status: StatusYes})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":"INV-1","user":"6281","status":"yes","reject_reason":null}`, string(data))
}

func TestDispatcher_Deliver(t *testing.T) {
	hook := &webhook{}
	server := httptest.NewServer(hook)
	defer server.Close()

	dispatcher := newTestDispatcher(t, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, dispatcher.Start(ctx))

	reason := "too expensive"
	require.NoError(t, dispatcher.Notify(ctx, server.URL, &Payload{OrderID: "INV-2", User: "6281", Status: StatusYes}))
	require.NoError(t, dispatcher.Notify(ctx, server.URL, &Payload{OrderID: "INV-2", User: "6282", Status: StatusNo, RejectReason: &reason}))
	require.NoError(t, dispatcher.Notify(ctx, "", &Payload{OrderID: "INV-3"}))

	require.Eventually(t, func() bool { return len(hook.received()) == 2 }, 2*time.Second, 10*time.Millisecond)
	byUser := map[string]map[string]interface{}{}
	for _, payload := range hook.received() {
		byUser[payload["user"].(string)] = payload
	}
	assert.Equal(t, "yes", byUser["6281"]["status"])
	assert.Nil(t, byUser["6281"]["reject_reason"])
	assert.Equal(t, "no", byUser["6282"]["status"])
	assert.Equal(t, "too expensive", byUser["6282"]["reject_reason"])

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	dispatcher.Shutdown(shutdownCtx)
	assert.ErrorIs(t, dispatcher.Notify(ctx, server.URL, &Payload{OrderID: "INV-4"}), ErrStopped)
	assert.Equal(t, 0, dispatcher.DeadLetters())
}

func TestDispatcher_FailureIsDeadLettered(t *testing.T) {
	hook := &webhook{status: http.StatusInternalServerError}
	server := httptest.NewServer(hook)
	defer server.Close()

	dispatcher := newTestDispatcher(t, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, dispatcher.Start(ctx))
	defer dispatcher.Shutdown(ctx)

	require.NoError(t, dispatcher.Notify(ctx, server.URL, &Payload{OrderID: "INV-5", User: "6281", Status: StatusYes}))
	require.Eventually(t, func() bool { return dispatcher.DeadLetters() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, hook.received(), 1, "failed callbacks are not retried")
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 1
	config.EnqueueTimeout = 10 * time.Millisecond
	dispatcher := newTestDispatcher(t, config)
	ctx := context.Background()

	require.NoError(t, dispatcher.Notify(ctx, "http://127.0.0.1:1", &Payload{OrderID: "INV-6"}))
	started := time.Now()
	assert.Error(t, dispatcher.Notify(ctx, "http://127.0.0.1:1", &Payload{OrderID: "INV-7"}))
	assert.Less(t, time.Since(started), time.Second)
}

func TestConfig_Validate(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())
	config.Workers = 0
	assert.Error(t, config.Validate())
	_, err := New(WithConfig(config))
	assert.Error(t, err)
}
