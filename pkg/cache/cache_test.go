package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewFileCache(t.TempDir())

	_, err := c.GetBytes(ctx, "av:daily:TM")
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.SetBytes(ctx, "av:daily:TM", []byte(`{"ok":true}`), time.Hour))
	b, err := c.GetBytes(ctx, "av:daily:TM")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(b))
	assert.Contains(t, c.Path("av:daily:TM"), "av_daily_TM.json")
}

func TestTTLCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Minute))
	b, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))

	now = now.Add(2 * time.Minute)
	_, err = c.GetBytes(ctx, "k")
	require.ErrorIs(t, err, ErrCacheMiss)
}

type failingCache struct{}

func (failingCache) GetBytes(context.Context, string) ([]byte, error) {
	return nil, errors.New("down")
}

func (failingCache) SetBytes(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

func TestChainBackfillsEarlierLayers(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewTTLCache(), NewTTLCache()
	require.NoError(t, l2.SetBytes(ctx, "k", []byte("v"), 0))

	chain := Chain{l1, l2}
	b, err := chain.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))

	b, err = l1.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))

	_, err = chain.GetBytes(ctx, "missing")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestChainPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	chain := Chain{failingCache{}, NewTTLCache()}
	_, err := chain.GetBytes(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	require.Error(t, chain.SetBytes(ctx, "k", []byte("v"), 0))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "av:TM:full", GenerateKeyWithParams("av", "TM", "full"))
	assert.Equal(t, "a_b_c", SanitizeKey("a/b c"))
}
