package faultlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdir/internal/docstore"
	"userdir/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestStoreSink_Record(t *testing.T) {
	store := docstore.NewMemoryStore()
	sink := NewStoreSink(store, testLogger())

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), at)
	ctx = requestcontext.WithRequestID(ctx, "req-42")

	sink.Record(ctx, "directory.create", errors.New("store exploded"))

	docs, err := store.List(ctx, Collection)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "store exploded", docs[0].Fields["message"])
	assert.Equal(t, "directory.create", docs[0].Fields["stage"])
	assert.Equal(t, "req-42", docs[0].Fields["requestId"])
	assert.Equal(t, at.Format(time.RFC3339Nano), docs[0].Fields["timestamp"])
}

func TestStoreSink_NilFaultIgnored(t *testing.T) {
	store := docstore.NewMemoryStore()
	sink := NewStoreSink(store, testLogger())

	sink.Record(context.Background(), "directory.create", nil)

	docs, err := store.List(context.Background(), Collection)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStoreSink_SwallowsStoreFailure(t *testing.T) {
	sink := NewStoreSink(failingStore{}, testLogger())

	// Must not panic or propagate the store failure.
	sink.Record(context.Background(), "directory.create", errors.New("original fault"))
}

// failingStore errors on every operation.
type failingStore struct{}

var errStoreDown = errors.New("store down")

func (failingStore) Get(context.Context, string, string) (docstore.Document, error) {
	return docstore.Document{}, errStoreDown
}

func (failingStore) Query(context.Context, string, string, string) ([]docstore.Document, error) {
	return nil, errStoreDown
}

func (failingStore) Set(context.Context, string, string, map[string]any) error {
	return errStoreDown
}

func (failingStore) Update(context.Context, string, string, map[string]any) error {
	return errStoreDown
}

func (failingStore) Delete(context.Context, string, string) error {
	return errStoreDown
}

func (failingStore) List(context.Context, string) ([]docstore.Document, error) {
	return nil, errStoreDown
}
