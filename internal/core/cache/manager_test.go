package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-book/internal/core/model"
	"recipe-book/internal/infrastructure/config"
)

func testRecipe(t *testing.T, name string) *model.Recipe {
	t.Helper()
	info, err := model.NewInfoBlock(1, 0, time.Minute)
	require.NoError(t, err)
	r, err := model.NewRecipe(name, nil, model.Method{}, info, nil)
	require.NoError(t, err)
	return r
}

func TestManagerHitMiss(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	require.NotNil(t, m)
	defer m.Close()

	_, ok := m.Get("( toast ) ...")
	assert.False(t, ok)

	r := testRecipe(t, "toast")
	m.Set("( toast ) ...", r)

	got, ok := m.Get("( toast ) ...")
	require.True(t, ok)
	assert.NotSame(t, r, got)
	assert.True(t, r.Equal(got))

	s := m.GetStats()
	assert.Equal(t, int64(1), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, 1, s.Size)
	assert.InDelta(t, 0.5, s.HitRatio, 1e-9)
}

func TestManagerEvictsOldest(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 2, TTL: time.Minute})
	m.Set("a", testRecipe(t, "a"))
	m.Set("b", testRecipe(t, "b"))
	m.Set("c", testRecipe(t, "c"))

	_, ok := m.Get("a")
	assert.False(t, ok)
	_, ok = m.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(1), m.GetStats().Evictions)
}

func TestDisabledManagerIsNilSafe(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: false})
	assert.Nil(t, m)

	m.Set("a", testRecipe(t, "a"))
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, m.GetStats())
	assert.NoError(t, m.Close())
}

func TestKeyDependsOnContent(t *testing.T) {
	assert.Equal(t, Key("x"), Key("x"))
	assert.NotEqual(t, Key("x"), Key("y"))
}
