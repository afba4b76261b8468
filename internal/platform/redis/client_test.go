package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyURL(t *testing.T) {
	client, err := New(context.Background(), "")
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, client)
}

func TestNew_MalformedURL(t *testing.T) {
	client, err := New(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
	assert.Nil(t, client)
}
