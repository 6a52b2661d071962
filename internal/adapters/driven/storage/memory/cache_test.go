package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/slidefit/internal/core/domain"
)

func cachedResult(id string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		SlideID: id,
		Regions: []domain.Region{{
			ID:       "title",
			Kind:     domain.RegionTitle,
			Position: &domain.Rect{X: 10, Y: 10, Width: 500, Height: 100, Space: domain.SpaceNormalized1000},
		}},
	}
}

func TestGeometryCache_GetPut(t *testing.T) {
	ctx := context.Background()
	c := NewGeometryCache(4, 0)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", cachedResult("s1")))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s1", got.SlideID)

	// Results are copies.
	got.Regions[0].Position.Width = 1
	again, _, _ := c.Get(ctx, "k")
	assert.InDelta(t, 500.0, again.Regions[0].Position.Width, 1e-9)

	assert.ErrorIs(t, c.Put(ctx, "nil", nil), domain.ErrInvalidInput)
}

func TestGeometryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewGeometryCache(2, 0)

	require.NoError(t, c.Put(ctx, "a", cachedResult("a")))
	require.NoError(t, c.Put(ctx, "b", cachedResult("b")))
	_, _, _ = c.Get(ctx, "a")
	require.NoError(t, c.Put(ctx, "c", cachedResult("c")))

	_, okA, _ := c.Get(ctx, "a")
	_, okB, _ := c.Get(ctx, "b")
	_, okC, _ := c.Get(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGeometryCache_TTL(t *testing.T) {
	ctx := context.Background()
	c := NewGeometryCache(10, time.Hour)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	require.NoError(t, c.Put(ctx, "k", cachedResult("s1")))
	clock = clock.Add(59 * time.Minute)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	clock = clock.Add(2 * time.Hour)
	n, _ := c.Len(ctx)
	assert.Zero(t, n)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestGeometryCache_DeletePurge(t *testing.T) {
	ctx := context.Background()
	c := NewGeometryCache(0, 0)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("k%d", i), cachedResult("s")))
	}
	require.NoError(t, c.Delete(ctx, "k1"))
	require.NoError(t, c.Delete(ctx, "never-there"))
	n, _ := c.Len(ctx)
	assert.Equal(t, 4, n)

	require.NoError(t, c.Purge(ctx))
	n, _ = c.Len(ctx)
	assert.Zero(t, n)
}
