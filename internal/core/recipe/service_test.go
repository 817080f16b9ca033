package recipe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-book/internal/core/cache"
	"recipe-book/internal/core/catalog"
	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/model"
	"recipe-book/internal/core/queue"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/infrastructure/store"
	"recipe-book/internal/pkg/common"
)

const (
	pancakes = `( Pancakes ) 4 , 0 : 10 , 0 : 20
<start> ( 200 gram flour ) ( 2 each eggs ) ( 1 cup milk ) <stop>
<start> # 1 whisk # # 2 fry # <stop>
<tagOpen> ( breakfast ) ( vegetarian ) <tagClose>`

	bread = `( Bread ) 8 , 1 : 0 , 0 : 40
<start> ( 300 gram FLOUR ) ( 1 cup flour ) ( 7 gram yeast ) <stop>
<start> # 1 knead # <stop>
<tagOpen> ( baking ) ( vegan ) <tagClose>`
)

type failingStore struct {
	store.Store
}

func (failingStore) Save(context.Context, *model.Recipe) error {
	return errors.New("disk full")
}

func newService(t *testing.T, st store.Store) *Service {
	t.Helper()
	cm := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 16, TTL: time.Minute})
	s := NewService(catalog.New(), st, cm, nil)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newService(t, st)

	r, err := s.Import(ctx, pancakes)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", r.Name)
	assert.Equal(t, []string{"Pancakes"}, s.Names())

	// 標籤同時登記到目錄與前綴索引
	assert.Equal(t, []string{"BREAKFAST", "VEGETARIAN"}, s.KnownTags())
	assert.Equal(t, []string{"VEGETARIAN"}, s.Suggest("veg"))

	doc, err := st.Get(ctx, "Pancakes")
	require.NoError(t, err)
	decoded, err := codec.Decode(doc.Text)
	require.NoError(t, err)
	assert.True(t, r.Equal(decoded))
}

func TestImportDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)

	_, err := s.Import(ctx, pancakes)
	require.NoError(t, err)

	_, err = s.Import(ctx, pancakes)
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, s.Names(), 1)
	assert.Equal(t, int64(1), s.GetStats().Cache.Hits)
}

func TestDecodeCacheHitIsIndependentCopy(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)

	first, err := s.Decode(ctx, pancakes)
	require.NoError(t, err)
	steps := first.Method.Len()
	first.Method.RemoveStep(0)
	first.Tags[0] = "CHANGED"

	second, err := s.Decode(ctx, pancakes)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.GetStats().Cache.Hits)
	assert.NotSame(t, first, second)
	assert.Equal(t, steps, second.Method.Len())
	assert.NotContains(t, second.Tags, "CHANGED")
}

func TestImportParseError(t *testing.T) {
	s := newService(t, nil)
	_, err := s.Import(context.Background(), "( Broken ) 0 , 0 : 0 , 0 : 0")
	require.ErrorIs(t, err, codec.ErrParse)

	var pe *codec.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "0", pe.Token)
	assert.Empty(t, s.Names())
}

func TestImportRollsBackWhenStoreFails(t *testing.T) {
	s := newService(t, failingStore{Store: store.NewMemoryStore()})

	_, err := s.Import(context.Background(), pancakes)
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Empty(t, s.Names())
}

func TestCreate(t *testing.T) {
	s := newService(t, nil)
	form := common.RecipeForm{
		Name:        "Omelette",
		Serves:      1,
		PrepMinutes: 5,
		CookMinutes: 5,
		Ingredients: []common.IngredientForm{{Amount: 3, Unit: "each", Name: "eggs"}},
		Steps:       []common.StepForm{{Text: "beat the eggs"}, {Text: "cook gently"}},
		Tags:        []string{"quick"},
	}

	r, err := s.Create(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, []model.Step{{Text: "beat the eggs", Ordinal: 1}, {Text: "cook gently", Ordinal: 2}}, r.Method.Steps)
	assert.Equal(t, 10*time.Minute, r.TotalTime())
	assert.Equal(t, []string{"QUICK"}, r.Tags)
	assert.Equal(t, []string{"QUICK"}, s.Suggest("q"))
}

func TestCreateValidation(t *testing.T) {
	base := common.RecipeForm{Name: "Omelette", Serves: 1}
	tests := []struct {
		name   string
		mutate func(f *common.RecipeForm)
		target error
	}{
		{"unknown unit", func(f *common.RecipeForm) {
			f.Ingredients = []common.IngredientForm{{Amount: 1, Unit: "pinch", Name: "salt"}}
		}, model.ErrUnknownUnit},
		{"leading digit step", func(f *common.RecipeForm) {
			f.Steps = []common.StepForm{{Text: "2 eggs in a bowl"}}
		}, common.ErrValidation},
		{"zero serves", func(f *common.RecipeForm) { f.Serves = 0 }, common.ErrValidation},
		{"negative minutes", func(f *common.RecipeForm) { f.CookMinutes = -1 }, common.ErrValidation},
		{"minutes beyond maximum", func(f *common.RecipeForm) {
			f.PrepMinutes = int(model.MaxDuration/time.Minute) + 1
		}, common.ErrValidation},
		{"empty name", func(f *common.RecipeForm) { f.Name = "  " }, common.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(t, nil)
			form := base
			tt.mutate(&form)
			_, err := s.Create(context.Background(), form)
			require.ErrorIs(t, err, tt.target)
			assert.Empty(t, s.Names())
		})
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newService(t, st)
	_, err := s.Import(ctx, pancakes)
	require.NoError(t, err)
	_, err = s.Import(ctx, bread)
	require.NoError(t, err)

	r, err := s.RemoveAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", r.Name)
	assert.Equal(t, []string{"Bread"}, s.Names())
	_, err = st.Get(ctx, "Pancakes")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, "Pancakes"), common.ErrNotFound)
	_, err = s.RemoveAt(ctx, 5)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFilterNormalizesTags(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)
	_, err := s.Import(ctx, pancakes)
	require.NoError(t, err)
	_, err = s.Import(ctx, bread)
	require.NoError(t, err)

	got := s.Filter(0, 0, []string{"vegan"})
	require.Len(t, got, 1)
	assert.Equal(t, "Bread", got[0].Name)

	assert.Empty(t, s.Filter(0, 29*time.Minute, nil))
	assert.Len(t, s.Filter(0, 30*time.Minute, nil), 1)

	name, ok := s.PickOne(4, 0, []string{" breakfast "})
	require.True(t, ok)
	assert.Equal(t, "Pancakes", name)

	_, ok = s.PickOne(3, 0, nil)
	assert.False(t, ok)
}

func TestShoppingList(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)
	_, err := s.Import(ctx, pancakes)
	require.NoError(t, err)
	_, err = s.Import(ctx, bread)
	require.NoError(t, err)

	list, err := s.ShoppingList([]string{"Pancakes", "Bread"})
	require.NoError(t, err)
	assert.Equal(t, []model.Measurement{
		{Amount: 500, Unit: model.Gram},
		{Amount: 1, Unit: model.Cup},
	}, list.Get("flour"))
	assert.Equal(t, []string{"flour", "eggs", "milk", "yeast"}, list.Names())

	_, err = s.ShoppingList([]string{"Pancakes", "Waffles"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegisterTag(t *testing.T) {
	s := newService(t, nil)
	assert.True(t, s.RegisterTag("Gluten free"))
	assert.False(t, s.RegisterTag("GLUTEN   FREE"))
	assert.False(t, s.RegisterTag(""))
	assert.Equal(t, []string{"GLUTEN FREE"}, s.Suggest("glu"))
}

func TestTagsKnownToSharedCatalogAreSuggested(t *testing.T) {
	cat := catalog.New()
	require.True(t, cat.RegisterTag("vegan"))

	s := NewService(cat, nil, nil, nil)
	assert.Equal(t, []string{"VEGAN"}, s.Suggest("v"))

	// 直接登記到目錄的標籤，再經由服務登記時補進前綴索引
	require.True(t, cat.RegisterTag("spicy"))
	assert.Empty(t, s.Suggest("sp"))
	assert.False(t, s.RegisterTag("Spicy"))
	assert.Equal(t, []string{"SPICY"}, s.Suggest("sp"))
	assert.Equal(t, 2, s.GetStats().Tags)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	seed := newService(t, st)
	_, err := seed.Import(ctx, pancakes)
	require.NoError(t, err)
	_, err = seed.Import(ctx, bread)
	require.NoError(t, err)

	qm := queue.NewManager(config.QueueConfig{Workers: 2, MaxSize: 4}, codec.Decode)
	s := NewService(nil, st, nil, qm)
	defer s.Close()

	result, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Empty(t, result.Failures)
	assert.NoError(t, result.Err())
	assert.Equal(t, []string{"Pancakes", "Bread"}, s.Names())
	assert.Equal(t, []string{"VEGAN", "VEGETARIAN"}, s.Suggest("VEG"))

	stats := s.GetStats()
	assert.Equal(t, 2, stats.Recipes)
	require.NotNil(t, stats.Queue)
	assert.Equal(t, int64(2), stats.Queue.ProcessedCount)
}

func TestLoadReportsBrokenDocuments(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := store.NewDirStore(dir)
	require.NoError(t, err)

	seed := NewService(nil, st, nil, nil)
	_, err = seed.Import(ctx, bread)
	require.NoError(t, err)
	require.NoError(t, writeRaw(dir, "broken.recipe", "( Broken"))

	s := NewService(nil, st, nil, nil)
	result, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "broken", result.Failures[0].Source)
	assert.ErrorIs(t, result.Err(), codec.ErrParse)
}
