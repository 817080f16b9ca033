// Package store 食譜文件的持久化；文件一律以純文字格式保存
package store

import (
	"context"
	"errors"
	"fmt"

	"recipe-book/internal/core/model"
	"recipe-book/internal/infrastructure/config"
)

// ErrNotFound 指定名稱的文件不存在
var ErrNotFound = errors.New("document not found")

// Document 已保存的文件；Name 為食譜名稱
type Document struct {
	Name string
	Text string
}

// Store 文件儲存介面
type Store interface {
	// Save 以食譜名稱為鍵新增或覆寫
	Save(ctx context.Context, r *model.Recipe) error
	// Get 取得單一文件，不存在時回傳 ErrNotFound
	Get(ctx context.Context, name string) (Document, error)
	// List 依各後端的穩定順序回傳全部文件
	List(ctx context.Context) ([]Document, error)
	// Delete 刪除文件，不存在時回傳 ErrNotFound
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open 依設定開啟對應的儲存後端
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreDir:
		return NewDirStore(cfg.Dir)
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.StoreRedis:
		return NewRedisStore(ctx, cfg)
	case config.StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
