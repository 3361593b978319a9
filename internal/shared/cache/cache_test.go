package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprep-backend/resume/analyzer"
)

const resumeText = "Jane Doe\njane@x.com\nSUMMARY\nExperienced engineer.\nSKILLS\nJavaScript, SQL"

func TestKeyDependsOnInputsAndOptions(t *testing.T) {
	base := Key(resumeText, "Python", 25, false)
	assert.Equal(t, base, Key(resumeText, "Python", 25, false))
	assert.NotEqual(t, base, Key(resumeText, "Go", 25, false))
	assert.NotEqual(t, base, Key(resumeText, "Python", 10, false))
	assert.NotEqual(t, base, Key(resumeText, "Python", 25, true))
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	result := analyzer.Analyze(resumeText, "Requires Python and AWS experience")
	require.NoError(t, c.Set(ctx, "k", result))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.ATSScore, got.ATSScore)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheSweepsExpiredEntriesOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryWithLimit(time.Minute, 5000)
	c.now = func() time.Time { return now }

	result := analyzer.Analyze(resumeText, "Requires Python and AWS experience")
	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), result))
	}
	assert.Equal(t, 1000, c.Len())

	now = now.Add(time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", result))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheEvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryWithLimit(time.Hour, 3)
	c.now = func() time.Time { return now }

	result := analyzer.Analyze(resumeText, "")
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, c.Set(ctx, k, result))
		now = now.Add(time.Second)
	}
	assert.Equal(t, 3, c.Len())

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "the entry closest to expiry is evicted first")
	_, ok, err = c.Get(ctx, "d")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedisFromURL("redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	result := analyzer.Analyze(resumeText, "Requires Python and AWS experience")
	key := Key(resumeText, "Requires Python and AWS experience", 25, false)
	require.NoError(t, c.Set(ctx, key, result))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.Suggestions, got.Suggestions)
	assert.Equal(t, result.MissingKeywords, got.MissingKeywords)
	assert.Equal(t, result.ParsedSections.Sections, got.ParsedSections.Sections)

	ttl := mr.TTL(key)
	assert.Equal(t, time.Hour, ttl)

	mr.FastForward(2 * time.Hour)
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheRejectsCorruptEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedisFromURL("redis://"+mr.Addr(), time.Hour)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, mr.Set("bad", "{not json"))
	_, ok, err := c.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}
