package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshot(client, time.Minute)
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := newTestSnapshot(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.Set(ctx, "k", payload{Name: "matrix", Count: 3}))

	var got payload
	require.NoError(t, c.Get(ctx, "k", &got))
	require.Equal(t, payload{Name: "matrix", Count: 3}, got)
}

func TestSnapshotMiss(t *testing.T) {
	c := newTestSnapshot(t)

	var got string
	require.ErrorIs(t, c.Get(context.Background(), "absent", &got), ErrMiss)
}

func TestSnapshotInvalidate(t *testing.T) {
	c := newTestSnapshot(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v"))
	require.NoError(t, c.Invalidate(ctx, "k"))

	var got string
	require.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestNilSnapshotIsNoOp(t *testing.T) {
	var c *Snapshot
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v"))
	require.NoError(t, c.Invalidate(ctx, "k"))

	var got string
	require.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}
