// Package docstore defines the keyed-document backend the directory service
// is written against. Documents are schemaless field maps grouped into named
// collections; shape validation belongs to callers. No operation spans more
// than one document, there are no cross-document transactions.
package docstore

import (
	"context"
)

// Document is one stored entry: the collection-scoped id plus its fields.
// Fields hold scalars or nested objects as decoded JSON values.
type Document struct {
	ID     string
	Fields map[string]any
}

// Field returns the named field as a string, with ok=false when the field is
// absent or not a string.
func (d Document) Field(name string) (string, bool) {
	v, ok := d.Fields[name].(string)
	return v, ok
}

// Store is the keyed-document contract shared by all backends. Backends
// return sentinel.ErrNotFound for missing documents and wrap infrastructure
// failures so the service layer can translate them.
type Store interface {
	// Get fetches a single document by id.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns all documents whose field equals value, in the
	// backend's natural iteration order.
	Query(ctx context.Context, collection, field, value string) ([]Document, error)

	// Set writes the full document at id, creating or replacing it.
	Set(ctx context.Context, collection, id string, fields map[string]any) error

	// Update merges partial into the existing document at id.
	Update(ctx context.Context, collection, id string, partial map[string]any) error

	// Delete removes the document at id.
	Delete(ctx context.Context, collection, id string) error

	// List returns every document in the collection, in the backend's
	// natural iteration order.
	List(ctx context.Context, collection string) ([]Document, error)
}
