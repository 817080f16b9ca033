package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/model"
)

// DirStore 每份食譜一個 .recipe 檔；檔名為跳脫後的食譜名稱
type DirStore struct {
	dir string
}

// NewDirStore 開啟目錄，不存在時建立
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &DirStore{dir: dir}, nil
}

// Path 食譜名稱對應的檔案路徑
func (s *DirStore) Path(name string) string {
	return filepath.Join(s.dir, url.PathEscape(name)+codec.FileExt)
}

func (s *DirStore) Save(ctx context.Context, r *model.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return codec.WriteFile(s.Path(r.Name), r)
}

func (s *DirStore) Get(ctx context.Context, name string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return Document{Name: name, Text: string(data)}, nil
}

// List 依檔名排序
func (s *DirStore) List(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), codec.FileExt) {
			continue
		}
		name, err := url.PathUnescape(strings.TrimSuffix(e.Name(), codec.FileExt))
		if err != nil {
			// 非本儲存寫入的檔案，沿用原始檔名
			name = strings.TrimSuffix(e.Name(), codec.FileExt)
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: name, Text: string(data)})
	}
	return docs, nil
}

func (s *DirStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (s *DirStore) Close() error { return nil }
