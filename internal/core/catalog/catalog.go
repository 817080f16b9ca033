// Package catalog 食譜集合：重複檢查、條件篩選與名稱查詢
package catalog

import (
	"math/rand"
	"slices"
	"sort"
	"sync"
	"time"

	"recipe-book/internal/core/model"
	"recipe-book/internal/pkg/common"
)

// Rand PickOne 使用的隨機來源
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// Option Catalog 選項
type Option func(*Catalog)

// WithRand 指定隨機來源，測試時可得到固定結果
func WithRand(r Rand) Option {
	return func(c *Catalog) {
		c.rand = r
	}
}

// Catalog 擁有所有食譜及已知標籤集合。所有方法皆可並行呼叫
type Catalog struct {
	mu      sync.RWMutex
	recipes []*model.Recipe
	tags    map[string]struct{}
	rand    Rand
}

// New 創建空的食譜集合
func New(opts ...Option) *Catalog {
	c := &Catalog{
		tags: make(map[string]struct{}),
		rand: globalRand{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add 附加食譜；不做重複檢查，需要時先呼叫 IsDuplicate
func (c *Catalog) Add(r *model.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = append(c.recipes, r)
}

// AddUnique 在同一把鎖內檢查名稱並附加，名稱已存在時回傳 false
func (c *Catalog) AddUnique(r *model.Recipe) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(r.Name) >= 0 {
		return false
	}
	c.recipes = append(c.recipes, r)
	return true
}

// IsDuplicate 是否已有同名食譜
func (c *Catalog) IsDuplicate(r *model.Recipe) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(r.Name) >= 0
}

func (c *Catalog) indexOf(name string) int {
	return slices.IndexFunc(c.recipes, func(r *model.Recipe) bool { return r.Name == name })
}

// NamesInOrder 依儲存順序回傳名稱
func (c *Catalog) NamesInOrder() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.recipes))
	for i, r := range c.recipes {
		names[i] = r.Name
	}
	return names
}

// ByIndex 依索引取得食譜
func (c *Catalog) ByIndex(i int) (*model.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.recipes) {
		return nil, false
	}
	return c.recipes[i], true
}

// ByName 依名稱取得食譜
func (c *Catalog) ByName(name string) (*model.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(name); i >= 0 {
		return c.recipes[i], true
	}
	return nil, false
}

// RemoveAt 刪除指定索引的食譜，後面的食譜往前移
func (c *Catalog) RemoveAt(i int) (*model.Recipe, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.recipes) {
		return nil, false
	}
	r := c.recipes[i]
	c.recipes = slices.Delete(c.recipes, i, i+1)
	return r, true
}

// RemoveByName 依名稱刪除
func (c *Catalog) RemoveByName(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(name)
	if i < 0 {
		return false
	}
	c.recipes = slices.Delete(c.recipes, i, i+1)
	return true
}

// Len 食譜數量
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.recipes)
}

// All 回傳目前食譜的副本切片
func (c *Catalog) All() []*model.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.recipes)
}

// RegisterTag 正規化為大寫後記錄；新標籤回傳 true，已知標籤回傳 false
func (c *Catalog) RegisterTag(tag string) bool {
	tag = common.NormalizeTag(tag)
	if tag == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tags[tag]; ok {
		return false
	}
	c.tags[tag] = struct{}{}
	return true
}

// KnownTags 已知標籤（已排序）
func (c *Catalog) KnownTags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tags))
	for t := range c.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Filter 依份量、總時間上限與必要標籤篩選。
// serves 為 0 或 maxTotal 小於一分鐘時該條件不限制；標籤以大小寫敏感的方式比對。
func (c *Catalog) Filter(serves int, maxTotal time.Duration, required []string) []*model.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		if serves != 0 && r.Info.Serves != serves {
			continue
		}
		if maxTotal >= time.Minute && r.TotalTime() > maxTotal {
			continue
		}
		if !r.HasAllTags(required) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PickOne 在符合條件的食譜中均勻隨機選一個名稱，沒有符合時回傳 false
func (c *Catalog) PickOne(serves int, maxTotal time.Duration, required []string) (string, bool) {
	matches := c.Filter(serves, maxTotal, required)
	switch len(matches) {
	case 0:
		return "", false
	case 1:
		return matches[0].Name, true
	}
	return matches[c.rand.IntN(len(matches))].Name, true
}
