// Package faultlog is the diagnostic sink for unexpected faults. Records go
// to the errors collection of the document store for offline inspection.
// Recording is strictly best-effort: it never errors back into the caller and
// never affects control flow.
package faultlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"userdir/internal/docstore"
	"userdir/pkg/requestcontext"
)

// Collection is where fault records are kept in the document store.
const Collection = "errors"

// Sink receives failure records. Implementations must swallow their own
// failures.
type Sink interface {
	Record(ctx context.Context, stage string, fault error)
}

// StoreSink writes fault records to the document store.
type StoreSink struct {
	store  docstore.Store
	logger *slog.Logger
}

func NewStoreSink(store docstore.Store, logger *slog.Logger) *StoreSink {
	return &StoreSink{store: store, logger: logger}
}

// Record persists one fault with its request context. A failure while
// recording is only logged locally, never re-raised.
func (s *StoreSink) Record(ctx context.Context, stage string, fault error) {
	if fault == nil {
		return
	}

	fields := map[string]any{
		"message":   fault.Error(),
		"stage":     stage,
		"timestamp": requestcontext.Now(ctx).UTC().Format(time.RFC3339Nano),
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		fields["requestId"] = requestID
	}

	if err := s.store.Set(ctx, Collection, uuid.NewString(), fields); err != nil {
		s.logger.Error("failed to record fault",
			"stage", stage,
			"fault", fault,
			"error", err,
		)
	}
}

// Nop discards every fault. Useful where no store is wired yet.
type Nop struct{}

func (Nop) Record(context.Context, string, error) {}
