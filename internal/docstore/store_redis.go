package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"userdir/pkg/platform/sentinel"
)

// RedisStore keeps each document as a JSON string under
// doc:<collection>:<id> and tracks insertion order in a per-collection list.
// Redis offers no multi-document transactions here, which matches the store
// contract.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := s.client.Get(ctx, docKey(collection, id)).Result()
	if errors.Is(err, redis.Nil) {
		return Document{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("redis get %s/%s: %w", collection, id, err)
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return Document{}, fmt.Errorf("redis get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Fields: fields}, nil
}

func (s *RedisStore) Query(ctx context.Context, collection, field, value string) ([]Document, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	var out []Document
	for _, doc := range docs {
		if v, ok := doc.Field(field); ok && v == value {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *RedisStore) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("redis set %s/%s: %w", collection, id, err)
	}

	existed, err := s.client.Exists(ctx, docKey(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("redis set %s/%s: %w", collection, id, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKey(collection, id), raw, 0)
	if existed == 0 {
		pipe.RPush(ctx, orderKey(collection), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range partial {
		doc.Fields[k] = v
	}
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("redis update %s/%s: %w", collection, id, err)
	}
	if err := s.client.Set(ctx, docKey(collection, id), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	deleted, err := s.client.Del(ctx, docKey(collection, id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, id, err)
	}
	if deleted == 0 {
		return sentinel.ErrNotFound
	}
	if err := s.client.LRem(ctx, orderKey(collection), 0, id).Err(); err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, collection string) ([]Document, error) {
	ids, err := s.client.LRange(ctx, orderKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", collection, err)
	}
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.Get(ctx, collection, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			// Index and document can drift if a delete half-completed.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func docKey(collection, id string) string { return "doc:" + collection + ":" + id }

func orderKey(collection string) string { return "col:" + collection }

func decodeFields(raw string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fields, nil
}
