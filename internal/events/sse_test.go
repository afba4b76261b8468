package events

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncRecorder is an http.Flusher-capable recorder safe to read while the
// handler goroutine is still writing.
type syncRecorder struct {
	mu     sync.Mutex
	header http.Header
	status int
	body   bytes.Buffer
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{header: make(http.Header)}
}

func (r *syncRecorder) Header() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header
}

func (r *syncRecorder) WriteHeader(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

func (r *syncRecorder) Flush() {}

func (r *syncRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func (r *syncRecorder) ContentType() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header.Get("Content-Type")
}

func TestSSEHandler_StreamsNamedFrames(t *testing.T) {
	broker := NewBroker(testLogger())
	handler := NewSSEHandler(broker, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := newSyncRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.HandleStream(rec, req)
	}()

	// Wait for the connection before publishing; a late subscriber would
	// miss the event by contract.
	require.Eventually(t, func() bool {
		return broker.SubscriberCount() == 1
	}, time.Second, 5*time.Millisecond)

	broker.Publish(NewUserCreated("u1", "Ally", "ally@example.com", "user"))
	broker.Publish(NewEmailStatus(EmailPending, "ally@example.com", time.Now()))

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body(), "event: emailStatus")
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop after client disconnect")
	}

	body := rec.Body()
	assert.Equal(t, "text/event-stream", rec.ContentType())
	assert.Contains(t, body, ": connected")
	assert.Contains(t, body, "event: userCreated")
	assert.Contains(t, body, `"email":"ally@example.com"`)
	assert.Contains(t, body, "event: emailStatus")
	assert.Contains(t, body, `"status":"pending"`)

	assert.Equal(t, 0, broker.SubscriberCount())
}

func TestSSEHandler_RejectsNonFlushableWriter(t *testing.T) {
	broker := NewBroker(testLogger())
	handler := NewSSEHandler(broker, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := &nonFlushableWriter{header: make(http.Header)}

	handler.HandleStream(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.status)
	assert.Equal(t, 0, broker.SubscriberCount())
}

type nonFlushableWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *nonFlushableWriter) Header() http.Header         { return w.header }
func (w *nonFlushableWriter) WriteHeader(status int)      { w.status = status }
func (w *nonFlushableWriter) Write(p []byte) (int, error) { return w.body.Write(p) }
