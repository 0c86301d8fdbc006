package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get existing key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("nebo:pref:city").SetVal("Tokyo, Japan")

		value, err := store.Get(ctx, "city")

		require.NoError(t, err)
		assert.Equal(t, "Tokyo, Japan", value)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("nebo:pref:city").RedisNil()

		value, err := store.Get(ctx, "city")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, value)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectGet("nebo:pref:city").SetErr(errors.New("connection refused"))

		_, err := store.Get(ctx, "city")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "connection refused")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set without expiry", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectSet("nebo:pref:city", "Paris, France", 0).SetVal("OK")

		require.NoError(t, store.Set(ctx, "city", "Paris, France"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisStore(client)

		mock.ExpectSet("nebo:pref:city", "Paris, France", 0).SetErr(errors.New("READONLY"))

		err := store.Set(ctx, "city", "Paris, France")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "READONLY")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
