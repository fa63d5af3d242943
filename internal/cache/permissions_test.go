package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard-pm/apiserver/config"
)

type countingChecker struct {
	calls  int
	result bool
	err    error
}

func (c *countingChecker) HasPermission(context.Context, string, string) (bool, error) {
	c.calls++
	return c.result, c.err
}

func setup(t *testing.T, next PermissionChecker) (*Permissions, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewPermissions(client, next, time.Minute), s
}

func TestPermissions_CachesAnswer(t *testing.T) {
	next := &countingChecker{result: true}
	p, _ := setup(t, next)
	ctx := context.Background()

	for range 3 {
		ok, err := p.HasPermission(ctx, "u1", "role.manage")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, next.calls)
}

func TestPermissions_CachesDenial(t *testing.T) {
	next := &countingChecker{result: false}
	p, _ := setup(t, next)
	ctx := context.Background()

	for range 2 {
		ok, err := p.HasPermission(ctx, "u1", "role.manage")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, next.calls)
}

func TestPermissions_InvalidateForcesLookup(t *testing.T) {
	next := &countingChecker{result: true}
	p, _ := setup(t, next)
	ctx := context.Background()

	_, err := p.HasPermission(ctx, "u1", "role.manage")
	require.NoError(t, err)
	require.NoError(t, p.Invalidate(ctx))

	next.result = false
	ok, err := p.HasPermission(ctx, "u1", "role.manage")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, next.calls)
}

func TestPermissions_ExpiresWithTTL(t *testing.T) {
	next := &countingChecker{result: true}
	p, s := setup(t, next)
	ctx := context.Background()

	_, err := p.HasPermission(ctx, "u1", "role.manage")
	require.NoError(t, err)
	s.FastForward(2 * time.Minute)
	_, err = p.HasPermission(ctx, "u1", "role.manage")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestPermissions_CheckerErrorNotCached(t *testing.T) {
	boom := errors.New("db down")
	next := &countingChecker{err: boom}
	p, _ := setup(t, next)

	_, err := p.HasPermission(context.Background(), "u1", "role.manage")
	assert.ErrorIs(t, err, boom)

	next.err = nil
	next.result = true
	ok, err := p.HasPermission(context.Background(), "u1", "role.manage")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPermissions_FallsThroughWhenRedisDown(t *testing.T) {
	next := &countingChecker{result: true}
	s, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s.Close()

	p := NewPermissions(client, next, time.Minute)
	ok, err := p.HasPermission(context.Background(), "u1", "role.manage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, next.calls)
}
