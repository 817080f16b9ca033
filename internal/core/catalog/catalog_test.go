package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-book/internal/core/model"
)

func recipe(t *testing.T, name string, serves int, total time.Duration, tags ...string) *model.Recipe {
	t.Helper()
	info, err := model.NewInfoBlock(serves, 0, total)
	require.NoError(t, err)
	r, err := model.NewRecipe(name, nil, model.Method{}, info, tags)
	require.NoError(t, err)
	return r
}

// fixedRand 依序回傳預先設定的值
type fixedRand struct {
	values []int
	calls  []int
}

func (f *fixedRand) IntN(n int) int {
	f.calls = append(f.calls, n)
	v := f.values[0]
	f.values = f.values[1:]
	return v
}

func names(rs []*model.Recipe) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	c := New()
	a := recipe(t, "A", 2, 30*time.Minute, "QUICK")
	b := recipe(t, "B", 4, 90*time.Minute)
	c.Add(a)
	c.Add(b)

	tests := []struct {
		name     string
		serves   int
		maxTotal time.Duration
		tags     []string
		want     []string
	}{
		{"serves only", 2, 0, nil, []string{"A"}},
		{"tag only", 0, 0, []string{"QUICK"}, []string{"A"}},
		{"unconstrained", 0, 0, nil, []string{"A", "B"}},
		{"empty tags unconstrained", 0, 0, []string{}, []string{"A", "B"}},
		{"max total inclusive", 0, 30 * time.Minute, nil, []string{"A"}},
		{"max total below a minute is unconstrained", 0, 59 * time.Second, nil, []string{"A", "B"}},
		{"max total excludes all", 0, 20 * time.Minute, nil, []string{}},
		{"tags are case sensitive", 0, 0, []string{"quick"}, []string{}},
		{"serves without match", 3, 0, nil, []string{}},
		{"combined", 4, 2 * time.Hour, nil, []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(c.Filter(tt.serves, tt.maxTotal, tt.tags)))
		})
	}
}

func TestFilterLongestRecipeStaysPositive(t *testing.T) {
	info, err := model.NewInfoBlock(1, model.MaxDuration, model.MaxDuration)
	require.NoError(t, err)
	r, err := model.NewRecipe("Forever", nil, model.Method{}, info, nil)
	require.NoError(t, err)
	require.Greater(t, r.TotalTime(), model.MaxDuration)

	c := New()
	c.Add(r)
	c.Add(recipe(t, "Toast", 1, 5*time.Minute))

	assert.Equal(t, []string{"Toast"}, names(c.Filter(0, 30*time.Minute, nil)))
	assert.Equal(t, []string{"Forever", "Toast"}, names(c.Filter(0, 0, nil)))
}

func TestIsDuplicateByNameOnly(t *testing.T) {
	c := New()
	c.Add(recipe(t, "Soup", 2, time.Hour))

	assert.True(t, c.IsDuplicate(recipe(t, "Soup", 8, time.Minute, "OTHER")))
	assert.False(t, c.IsDuplicate(recipe(t, "soup", 2, time.Hour)))
}

func TestAddUnique(t *testing.T) {
	c := New()
	require.True(t, c.AddUnique(recipe(t, "Soup", 2, time.Hour)))
	require.False(t, c.AddUnique(recipe(t, "Soup", 3, time.Hour)))
	assert.Equal(t, 1, c.Len())
}

func TestLookups(t *testing.T) {
	c := New()
	c.Add(recipe(t, "First", 1, time.Minute))
	c.Add(recipe(t, "Second", 1, time.Minute))
	c.Add(recipe(t, "Third", 1, time.Minute))

	assert.Equal(t, []string{"First", "Second", "Third"}, c.NamesInOrder())

	r, ok := c.ByIndex(1)
	require.True(t, ok)
	assert.Equal(t, "Second", r.Name)

	_, ok = c.ByIndex(3)
	assert.False(t, ok)
	_, ok = c.ByIndex(-1)
	assert.False(t, ok)

	r, ok = c.ByName("Third")
	require.True(t, ok)
	assert.Equal(t, "Third", r.Name)

	_, ok = c.ByName("Fourth")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(recipe(t, "First", 1, time.Minute))
	c.Add(recipe(t, "Second", 1, time.Minute))
	c.Add(recipe(t, "Third", 1, time.Minute))

	removed, ok := c.RemoveAt(0)
	require.True(t, ok)
	assert.Equal(t, "First", removed.Name)
	assert.Equal(t, []string{"Second", "Third"}, c.NamesInOrder())

	assert.True(t, c.RemoveByName("Third"))
	assert.False(t, c.RemoveByName("Third"))
	assert.Equal(t, []string{"Second"}, c.NamesInOrder())

	_, ok = c.RemoveAt(4)
	assert.False(t, ok)
}

func TestRegisterTagIdempotent(t *testing.T) {
	c := New()
	assert.True(t, c.RegisterTag("Vegan"))
	assert.False(t, c.RegisterTag("Vegan"))
	assert.False(t, c.RegisterTag("VEGAN"))
	assert.False(t, c.RegisterTag(""))
	assert.Equal(t, []string{"VEGAN"}, c.KnownTags())
}

func TestPickOne(t *testing.T) {
	rnd := &fixedRand{values: []int{1}}
	c := New(WithRand(rnd))

	_, ok := c.PickOne(0, 0, nil)
	assert.False(t, ok, "empty catalog has nothing to pick")

	c.Add(recipe(t, "A", 2, 30*time.Minute, "QUICK"))
	name, ok := c.PickOne(0, 0, nil)
	require.True(t, ok)
	assert.Equal(t, "A", name)
	assert.Empty(t, rnd.calls, "single match must not consume randomness")

	c.Add(recipe(t, "B", 2, 40*time.Minute, "QUICK"))
	c.Add(recipe(t, "C", 4, 40*time.Minute, "QUICK"))
	name, ok = c.PickOne(2, 0, []string{"QUICK"})
	require.True(t, ok)
	assert.Equal(t, "B", name)
	assert.Equal(t, []int{2}, rnd.calls)

	_, ok = c.PickOne(6, 0, nil)
	assert.False(t, ok)
}

func TestPickOneDefaultRandStaysInMatches(t *testing.T) {
	c := New()
	c.Add(recipe(t, "A", 2, time.Minute))
	c.Add(recipe(t, "B", 2, time.Minute))
	c.Add(recipe(t, "C", 3, time.Minute))

	for i := 0; i < 50; i++ {
		name, ok := c.PickOne(2, 0, nil)
		require.True(t, ok)
		assert.Contains(t, []string{"A", "B"}, name)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := New()
	c.Add(recipe(t, "A", 1, time.Minute))
	all := c.All()
	all[0] = nil
	r, ok := c.ByIndex(0)
	require.True(t, ok)
	assert.NotNil(t, r)
}
