package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func samplePage(points int64) *Page {
	return &Page{
		Entries: []models.LeaderboardEntry{{Rank: 1, WalletAddress: "0xabc", Username: "top", Points: points}},
		Total:   1,
	}
}

func TestRedis_GetSetInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewRedis(setupRedis(t), time.Minute)

	page, gen, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Nil(t, page)
	assert.Equal(t, int64(0), gen)

	c.SetPage(ctx, gen, 10, 0, samplePage(50))
	page, gen, ok = c.GetPage(ctx, 10, 0)
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)
	assert.Equal(t, samplePage(50), page)

	_, _, ok = c.GetPage(ctx, 10, 10)
	assert.False(t, ok, "pages are keyed by limit and offset")

	c.Invalidate(ctx)
	page, gen, ok = c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Nil(t, page)
	assert.Equal(t, int64(1), gen)
	assert.NoError(t, c.Ping(ctx))
}

func TestRedis_PageBuiltAcrossInvalidateIsDropped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewRedis(setupRedis(t), time.Minute)

	_, gen, ok := c.GetPage(ctx, 10, 0)
	require.False(t, ok)

	// A write lands while the stale page is being computed.
	c.Invalidate(ctx)
	c.SetPage(ctx, gen, 10, 0, samplePage(10))

	_, current, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Equal(t, gen+1, current)

	c.SetPage(ctx, current, 10, 0, samplePage(20))
	page, _, ok := c.GetPage(ctx, 10, 0)
	require.True(t, ok)
	assert.Equal(t, int64(20), page.Entries[0].Points)
}

func TestRedis_UnreachableDegradesToMiss(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRedis(client, time.Minute)

	page, gen, ok := c.GetPage(ctx, 10, 0)
	assert.False(t, ok)
	assert.Nil(t, page)
	assert.Equal(t, int64(-1), gen)

	c.SetPage(ctx, gen, 10, 0, samplePage(5))
	c.Invalidate(ctx)
	assert.Error(t, c.Ping(ctx))
}
