package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipe-book/internal/core/cache"
	"recipe-book/internal/core/catalog"
	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/model"
	"recipe-book/internal/core/queue"
	"recipe-book/internal/core/shopping"
	"recipe-book/internal/core/tags"
	"recipe-book/internal/infrastructure/store"
	"recipe-book/internal/pkg/common"
)

// Service 食譜簿服務；store、cacheManager、queueManager 皆可為 nil
type Service struct {
	catalog      *catalog.Catalog
	trie         *tags.Trie
	store        store.Store
	cacheManager *cache.Manager
	queueManager *queue.Manager
}

// NewService 創建新的食譜簿服務
func NewService(cat *catalog.Catalog, st store.Store, cacheManager *cache.Manager, queueManager *queue.Manager) *Service {
	if cat == nil {
		cat = catalog.New()
	}
	trie := tags.NewTrie()
	for _, t := range cat.KnownTags() {
		trie.Insert(t)
	}
	return &Service{
		catalog:      cat,
		trie:         trie,
		store:        st,
		cacheManager: cacheManager,
		queueManager: queueManager,
	}
}

// Decode 解碼文件，先查快取
func (s *Service) Decode(ctx context.Context, text string) (*model.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r, ok := s.cacheManager.Get(text); ok {
		return r, nil
	}
	r, err := codec.Decode(text)
	if err != nil {
		return nil, err
	}
	s.cacheManager.Set(text, r)
	return r, nil
}

// Encode 編碼為文件格式
func (s *Service) Encode(r *model.Recipe) string {
	return codec.Encode(r)
}

// Import 解碼並加入食譜簿；同名食譜回傳 common.ErrConflict
func (s *Service) Import(ctx context.Context, text string) (*model.Recipe, error) {
	r, err := s.Decode(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.add(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Create 由表單建立食譜並加入食譜簿
func (s *Service) Create(ctx context.Context, form common.RecipeForm) (*model.Recipe, error) {
	r, err := FromForm(form)
	if err != nil {
		return nil, err
	}
	if err := s.add(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// FromForm 驗證表單並建立食譜；步驟文字需符合「不得以數字開頭」
func FromForm(form common.RecipeForm) (*model.Recipe, error) {
	ingredients := make([]model.Ingredient, 0, len(form.Ingredients))
	for i, f := range form.Ingredients {
		ing, err := model.NewIngredient(f.Amount, f.Unit, f.Name)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i+1, err)
		}
		ingredients = append(ingredients, ing)
	}

	var method model.Method
	for i, f := range form.Steps {
		ordinal := f.Ordinal
		if ordinal == 0 {
			ordinal = i + 1
		}
		step, err := model.NewStep(f.Text, ordinal)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		method.AddStep(step)
	}

	if form.PrepMinutes < 0 || form.CookMinutes < 0 {
		return nil, common.NewFieldError("time", "minutes must not be negative")
	}
	maxMinutes := int64(model.MaxDuration / time.Minute)
	if int64(form.PrepMinutes) > maxMinutes || int64(form.CookMinutes) > maxMinutes {
		return nil, common.NewFieldError("time", "minutes must not exceed %d", maxMinutes)
	}
	info, err := model.NewInfoBlock(form.Serves,
		time.Duration(form.PrepMinutes)*time.Minute,
		time.Duration(form.CookMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	return model.NewRecipe(form.Name, ingredients, method, info, form.Tags)
}

// add 加入目錄、登記標籤並寫入儲存；儲存失敗時撤回
func (s *Service) add(ctx context.Context, r *model.Recipe) error {
	if !s.catalog.AddUnique(r) {
		return common.ErrConflict.Wrap(fmt.Errorf("%q", r.Name))
	}
	s.registerTags(r)

	if s.store != nil {
		if err := s.store.Save(ctx, r); err != nil {
			s.catalog.RemoveByName(r.Name)
			common.LogError("Failed to persist recipe", zap.String("name", r.Name), zap.Error(err))
			return common.ErrStoreUnavailable.Wrap(err)
		}
	}
	common.LogInfo("Recipe added",
		zap.String("name", r.Name),
		zap.Int("ingredients", len(r.Ingredients)),
		zap.Int("steps", r.Method.Len()),
	)
	return nil
}

func (s *Service) registerTags(r *model.Recipe) {
	for _, t := range r.Tags {
		s.RegisterTag(t)
	}
}

// Remove 依名稱刪除
func (s *Service) Remove(ctx context.Context, name string) error {
	if _, ok := s.catalog.ByName(name); !ok {
		return common.ErrNotFound.Wrap(fmt.Errorf("%q", name))
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, name); err != nil && !errors.Is(err, store.ErrNotFound) {
			return common.ErrStoreUnavailable.Wrap(err)
		}
	}
	s.catalog.RemoveByName(name)
	common.LogInfo("Recipe removed", zap.String("name", name))
	return nil
}

// RemoveAt 依顯示順序的索引刪除
func (s *Service) RemoveAt(ctx context.Context, i int) (*model.Recipe, error) {
	r, ok := s.catalog.ByIndex(i)
	if !ok {
		return nil, common.ErrNotFound.Wrap(fmt.Errorf("index %d", i))
	}
	if err := s.Remove(ctx, r.Name); err != nil {
		return nil, err
	}
	return r, nil
}

// Names 依加入順序的食譜名稱
func (s *Service) Names() []string {
	return s.catalog.NamesInOrder()
}

func (s *Service) ByIndex(i int) (*model.Recipe, bool) {
	return s.catalog.ByIndex(i)
}

func (s *Service) ByName(name string) (*model.Recipe, bool) {
	return s.catalog.ByName(name)
}

// RegisterTag 登記標籤，回傳是否為新標籤；前綴索引缺少此標籤時一併補上
func (s *Service) RegisterTag(tag string) bool {
	created := s.catalog.RegisterTag(tag)
	if !s.trie.Contains(tag) {
		s.trie.Insert(tag)
	}
	return created
}

// KnownTags 全部已知標籤
func (s *Service) KnownTags() []string {
	return s.catalog.KnownTags()
}

// Suggest 標籤自動完成
func (s *Service) Suggest(prefix string) []string {
	return s.trie.Suggest(prefix)
}

// Filter 條件篩選；tags 在此正規化
func (s *Service) Filter(serves int, maxTotal time.Duration, tags []string) []*model.Recipe {
	return s.catalog.Filter(serves, maxTotal, common.NormalizeTags(tags))
}

// PickOne 從符合條件的食譜中隨機挑選一份
func (s *Service) PickOne(serves int, maxTotal time.Duration, tags []string) (string, bool) {
	return s.catalog.PickOne(serves, maxTotal, common.NormalizeTags(tags))
}

// ShoppingList 彙總指定食譜的食材；任何名稱不存在時回傳 common.ErrNotFound
func (s *Service) ShoppingList(names []string) (*shopping.List, error) {
	recipes := make([]*model.Recipe, 0, len(names))
	for _, name := range names {
		r, ok := s.catalog.ByName(name)
		if !ok {
			return nil, common.ErrNotFound.Wrap(fmt.Errorf("%q", name))
		}
		recipes = append(recipes, r)
	}
	return shopping.Aggregate(recipes), nil
}
