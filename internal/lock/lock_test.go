package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "approval:"), mr
}

func TestLocal_AcquireRelease(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	rel, err := l.Acquire(ctx, "o1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "o1", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	_, err = l.Acquire(ctx, "o2", time.Minute)
	assert.NoError(t, err)

	rel()
	rel()
	_, err = l.Acquire(ctx, "o1", time.Minute)
	assert.NoError(t, err)
}

func TestRedis_AcquireRelease(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	rel, err := r.Acquire(ctx, "o1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("approval:o1"))

	_, err = r.Acquire(ctx, "o1", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	rel()
	assert.False(t, mr.Exists("approval:o1"))

	_, err = r.Acquire(ctx, "o1", time.Minute)
	assert.NoError(t, err)
}

func TestRedis_ExpiredLockCanBeRetaken(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	stale, err := r.Acquire(ctx, "o1", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = r.Acquire(ctx, "o1", time.Minute)
	require.NoError(t, err)

	// The stale holder must not delete the new holder's key.
	stale()
	assert.True(t, mr.Exists("approval:o1"))
}

func TestMulti_ReleasesOnPartialFailure(t *testing.T) {
	local := NewLocal()
	r, _ := setupTestRedis(t)
	ctx := context.Background()

	held, err := r.Acquire(ctx, "o1", time.Minute)
	require.NoError(t, err)

	m := Multi{local, r}
	_, err = m.Acquire(ctx, "o1", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	// local key must have been released after the redis failure
	rel, err := local.Acquire(ctx, "o1", time.Minute)
	require.NoError(t, err)
	rel()
	held()

	rel, err = m.Acquire(ctx, "o1", time.Minute)
	require.NoError(t, err)
	rel()
}
