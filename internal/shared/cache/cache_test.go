package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-farmops/internal/shared/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type item struct {
	Name string `json:"name"`
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k").SetVal(`{"name":"barn"}`)

		var got item
		found, err := cache.GetJSON(ctx, rdb, "k", &got)

		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "barn", got.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k").RedisNil()

		var got item
		found, err := cache.GetJSON(ctx, rdb, "k", &got)

		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("redis error", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("k").SetErr(errors.New("down"))

		var got item
		_, err := cache.GetJSON(ctx, rdb, "k", &got)

		assert.Error(t, err)
	})

	t.Run("nil client is a miss", func(t *testing.T) {
		var got item
		found, err := cache.GetJSON(ctx, nil, "k", &got)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestSetJSON(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectSet("k", []byte(`{"name":"silo"}`), time.Minute).SetVal("OK")

	err := cache.SetJSON(context.Background(), rdb, "k", item{Name: "silo"}, time.Minute)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
