//go:build integration

package docstore_test

import (
	"context"

	"github.com/stretchr/testify/suite"

	"userdir/internal/docstore"
	"userdir/pkg/platform/sentinel"
)

// exerciseStore runs the behavior every backend must share with the memory
// store: round-trips, merge updates, field queries, ordered listing, and
// not-found reporting.
func exerciseStore(s *suite.Suite, store docstore.Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, "users", "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	fields := map[string]any{"name": "Ally", "email": "ally@example.com", "role": "user"}
	s.Require().NoError(store.Set(ctx, "users", "u1", fields))
	s.Require().NoError(store.Set(ctx, "users", "u2", map[string]any{
		"name": "Bo", "email": "bo@example.com", "role": "admin",
	}))

	doc, err := store.Get(ctx, "users", "u1")
	s.Require().NoError(err)
	s.Equal("u1", doc.ID)
	s.Equal(fields, doc.Fields)

	matches, err := store.Query(ctx, "users", "email", "bo@example.com")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal("u2", matches[0].ID)

	none, err := store.Query(ctx, "users", "email", "nobody@example.com")
	s.Require().NoError(err)
	s.Empty(none)

	s.Require().NoError(store.Update(ctx, "users", "u1", map[string]any{"name": "Allison"}))
	doc, err = store.Get(ctx, "users", "u1")
	s.Require().NoError(err)
	s.Equal("Allison", doc.Fields["name"])
	s.Equal("ally@example.com", doc.Fields["email"])

	s.Require().ErrorIs(
		store.Update(ctx, "users", "missing", map[string]any{"name": "x"}),
		sentinel.ErrNotFound,
	)

	docs, err := store.List(ctx, "users")
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal("u1", docs[0].ID)
	s.Equal("u2", docs[1].ID)

	s.Require().NoError(store.Delete(ctx, "users", "u2"))
	s.Require().ErrorIs(store.Delete(ctx, "users", "u2"), sentinel.ErrNotFound)

	docs, err = store.List(ctx, "users")
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
}
