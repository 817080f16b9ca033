// Package recipe 食譜簿服務：整合目錄、標籤索引、解碼快取、文件儲存與匯入佇列
package recipe

import (
	"context"
	"time"

	"recipe-book/internal/core/model"
	"recipe-book/internal/core/shopping"
	"recipe-book/internal/pkg/common"
)

// Book 食譜簿對外提供的操作
type Book interface {
	Decode(ctx context.Context, text string) (*model.Recipe, error)
	Encode(r *model.Recipe) string
	Import(ctx context.Context, text string) (*model.Recipe, error)
	Create(ctx context.Context, form common.RecipeForm) (*model.Recipe, error)
	Remove(ctx context.Context, name string) error
	RemoveAt(ctx context.Context, i int) (*model.Recipe, error)
	Names() []string
	ByIndex(i int) (*model.Recipe, bool)
	ByName(name string) (*model.Recipe, bool)
	RegisterTag(tag string) bool
	KnownTags() []string
	Suggest(prefix string) []string
	Filter(serves int, maxTotal time.Duration, tags []string) []*model.Recipe
	PickOne(serves int, maxTotal time.Duration, tags []string) (string, bool)
	ShoppingList(names []string) (*shopping.List, error)
	GetStats() Stats
}

var _ Book = (*Service)(nil)
