package docstore

import (
	"context"
	"sync"

	"userdir/pkg/platform/sentinel"
)

// The in-memory store keeps the default deployment lightweight and testable.
// It intentionally favors clarity over performance.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	docs  map[string]map[string]any
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[collection]
	if !ok {
		return Document{}, sentinel.ErrNotFound
	}
	fields, ok := col.docs[id]
	if !ok {
		return Document{}, sentinel.ErrNotFound
	}
	return Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (s *MemoryStore) Query(_ context.Context, collection, field, value string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	var out []Document
	for _, id := range col.order {
		if v, ok := col.docs[id][field].(string); ok && v == value {
			out = append(out, Document{ID: id, Fields: cloneFields(col.docs[id])})
		}
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collection(collection)
	if _, exists := col.docs[id]; !exists {
		col.order = append(col.order, id)
	}
	col.docs[id] = cloneFields(fields)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		return sentinel.ErrNotFound
	}
	doc, ok := col.docs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	for k, v := range partial {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.collections[collection]
	if !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := col.docs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(col.docs, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	out := make([]Document, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, Document{ID: id, Fields: cloneFields(col.docs[id])})
	}
	return out, nil
}

// collection fetches or creates a collection; callers hold the write lock.
func (s *MemoryStore) collection(name string) *memoryCollection {
	col, ok := s.collections[name]
	if !ok {
		col = &memoryCollection{docs: make(map[string]map[string]any)}
		s.collections[name] = col
	}
	return col
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
