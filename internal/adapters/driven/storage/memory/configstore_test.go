package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("fit.warning_percent", 80.0))
	require.NoError(t, store.Set("fit.warning_percent", 90.0))

	val, ok := store.Get("fit.warning_percent")
	assert.True(t, ok)
	assert.Equal(t, 90.0, val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", int64(42)))
	require.NoError(t, store.Set("f", 0.75))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("d", "36h"))
	require.NoError(t, store.Set("bad_d", "soon"))

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 42.0, store.GetFloat("i"))
	assert.Equal(t, 0.75, store.GetFloat("f"))
	assert.True(t, store.GetBool("b"))
	assert.Equal(t, 36*time.Hour, store.GetDuration("d"))
	assert.Zero(t, store.GetDuration("bad_d"))

	// Wrong types and missing keys return zero values.
	assert.Empty(t, store.GetString("i"))
	assert.Zero(t, store.GetInt("s"))
	assert.Zero(t, store.GetFloat("missing"))
	assert.False(t, store.GetBool("s"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("display.scale", float64(n))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetFloat("display.scale")
		}()
	}
	wg.Wait()

	_, ok := store.Get("display.scale")
	assert.True(t, ok)
}
