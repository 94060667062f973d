package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewJSON(client, time.Minute)
	ctx := context.Background()

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a", Total: 1.5}))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, payload{Name: "a", Total: 1.5}, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, found)
}

func TestJSONDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewJSON(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyActiveProducts, []payload{}))
	require.True(t, mr.Exists(KeyActiveProducts))
	require.NoError(t, c.Delete(ctx, KeyActiveProducts))
	require.False(t, mr.Exists(KeyActiveProducts))
}

func TestJSONDisabled(t *testing.T) {
	var c *JSON
	found, err := c.Get(context.Background(), "k", &payload{})
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.Set(context.Background(), "k", payload{}))
	require.NoError(t, c.Delete(context.Background(), "k"))

	stored, err := c.SetAt(context.Background(), "k", 0, payload{})
	require.NoError(t, err)
	require.False(t, stored)

	zeroTTL := NewJSON(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), 0)
	require.NoError(t, zeroTTL.Set(context.Background(), "k", payload{}))
	gen, err := zeroTTL.Generation(context.Background(), "k")
	require.NoError(t, err)
	require.Zero(t, gen)
}

func TestKeyDailyReport(t *testing.T) {
	day := time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC)
	require.Equal(t, "report:daily:2025-03-04", KeyDailyReport(day))
}

func TestJSONSetAtRespectsGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewJSON(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx, "k")
	require.NoError(t, err)
	require.Zero(t, gen)

	require.NoError(t, c.Delete(ctx, "k"))
	stored, err := c.SetAt(ctx, "k", gen, payload{Name: "stale"})
	require.NoError(t, err)
	require.False(t, stored)
	require.False(t, mr.Exists("k"))

	gen, err = c.Generation(ctx, "k")
	require.NoError(t, err)
	require.EqualValues(t, 1, gen)
	stored, err = c.SetAt(ctx, "k", gen, payload{Name: "fresh"})
	require.NoError(t, err)
	require.True(t, stored)

	var got payload
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "fresh", got.Name)
	require.Equal(t, time.Minute, mr.TTL("k"))
	require.Equal(t, generationTTL, mr.TTL("k:gen"))
}
