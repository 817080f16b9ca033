package tags

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vegTrie() *Trie {
	tr := NewTrie()
	for _, tag := range []string{"VEGAN", "VEGETARIAN", "VEGGIE"} {
		tr.Insert(tag)
	}
	return tr
}

func TestSuggest(t *testing.T) {
	tr := vegTrie()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"VEG", []string{"VEGAN", "VEGETARIAN", "VEGGIE"}},
		{"veg", []string{"VEGAN", "VEGETARIAN", "VEGGIE"}},
		{"VEGET", []string{"VEGETARIAN"}},
		{"VEGAN", []string{"VEGAN"}},
		{"XYZ", []string{}},
		{"VEGANS", []string{}},
		{"", []string{"VEGAN", "VEGETARIAN", "VEGGIE"}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Suggest(tt.prefix))
		})
	}
}

func TestSuggestPrefixEqualToShorterTag(t *testing.T) {
	tr := NewTrie()
	tr.Insert("VEG")
	tr.Insert("VEGAN")

	assert.Equal(t, []string{"VEG", "VEGAN"}, tr.Suggest("VEG"))
	assert.Equal(t, []string{"VEGAN"}, tr.Suggest("VEGA"))
	assert.True(t, tr.Contains("veg"))
	assert.False(t, tr.Contains("VEGA"))
}

func TestInsertIdempotent(t *testing.T) {
	tr := NewTrie()
	tr.Insert("Quick")
	tr.Insert("QUICK")
	tr.Insert("  quick ")
	tr.Insert("")

	require.Equal(t, 1, tr.Len())
	assert.Equal(t, []string{"QUICK"}, tr.Suggest("q"))
}

func TestMultiWordAndUnicodeTags(t *testing.T) {
	tr := NewTrie()
	tr.Insert("gluten free")
	tr.Insert("crème brûlée")

	assert.Equal(t, []string{"GLUTEN FREE"}, tr.Suggest("gluten f"))
	assert.Equal(t, []string{"CRÈME BRÛLÉE"}, tr.Suggest("crè"))
}

func TestConcurrentInsert(t *testing.T) {
	tr := NewTrie()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Insert(fmt.Sprintf("tag%d", i%10))
			_ = tr.Suggest("TAG")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, tr.Len())
}
