package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SSEHandler exposes the broker over Server-Sent Events. Each connected
// client gets its own subscriber; frames are named after the event kind so
// the UI can register per-kind listeners.
type SSEHandler struct {
	broker *Broker
	logger *slog.Logger
}

func NewSSEHandler(broker *Broker, logger *slog.Logger) *SSEHandler {
	return &SSEHandler{broker: broker, logger: logger}
}

// Register mounts the stream endpoint on the router.
func (h *SSEHandler) Register(r chi.Router) {
	r.Get("/events", h.HandleStream)
}

// HandleStream holds the connection open and relays broadcast events until
// the client goes away.
func (h *SSEHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Comment frame confirms the stream is live before any event arrives.
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	sub := h.broker.Subscribe()
	defer h.broker.Unsubscribe(sub)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := writeFrame(w, evt); err != nil {
				h.logger.Warn("dropping observer, write failed",
					"subscriber_id", sub.ID(),
					"error", err,
				)
				return
			}
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, evt Event) error {
	data, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", evt.Kind, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
