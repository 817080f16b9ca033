package recipe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"recipe-book/internal/core/cache"
	"recipe-book/internal/core/queue"
	"recipe-book/internal/pkg/common"
)

// LoadFailure 無法載入的文件
type LoadFailure struct {
	Source string
	Err    error
}

// LoadResult 啟動載入結果
type LoadResult struct {
	Loaded   int
	Failures []LoadFailure
}

// Err 將全部失敗合併為單一錯誤，沒有失敗時為 nil
func (r LoadResult) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.Source, f.Err))
	}
	return errors.Join(errs...)
}

// Load 從儲存載入全部文件；單一文件失敗不影響其他文件
func (s *Service) Load(ctx context.Context) (LoadResult, error) {
	var result LoadResult
	if s.store == nil {
		return result, nil
	}
	docs, err := s.store.List(ctx)
	if err != nil {
		return result, common.ErrStoreUnavailable.Wrap(err)
	}

	batch := make([]queue.Document, len(docs))
	for i, d := range docs {
		batch[i] = queue.Document{Source: d.Name, Text: d.Text}
	}

	for _, res := range s.decodeAll(ctx, batch) {
		if res.Error == nil && !s.catalog.AddUnique(res.Recipe) {
			res.Error = common.ErrConflict.Wrap(fmt.Errorf("%q", res.Recipe.Name))
		}
		if res.Error != nil {
			result.Failures = append(result.Failures, LoadFailure{Source: res.Source, Err: res.Error})
			common.LogWarn("Skipped stored document", zap.String("source", res.Source), zap.Error(res.Error))
			continue
		}
		s.registerTags(res.Recipe)
		result.Loaded++
	}

	common.LogInfo("Recipe book loaded",
		zap.Int("loaded", result.Loaded),
		zap.Int("failed", len(result.Failures)),
	)
	return result, nil
}

func (s *Service) decodeAll(ctx context.Context, docs []queue.Document) []queue.Result {
	if s.queueManager != nil {
		return s.queueManager.DecodeAll(ctx, docs)
	}
	out := make([]queue.Result, len(docs))
	for i, d := range docs {
		r, err := s.Decode(ctx, d.Text)
		out[i] = queue.Result{Source: d.Source, Recipe: r, Error: err}
	}
	return out
}

// Stats 服務狀態
type Stats struct {
	Recipes int           `json:"recipes"`
	Tags    int           `json:"tags"`
	Cache   cache.Stats   `json:"cache"`
	Queue   *queue.Status `json:"queue,omitempty"`
}

// GetStats 取得服務狀態
func (s *Service) GetStats() Stats {
	st := Stats{
		Recipes: s.catalog.Len(),
		Tags:    s.trie.Len(),
		Cache:   s.cacheManager.GetStats(),
	}
	if s.queueManager != nil {
		q := s.queueManager.GetQueueStatus()
		st.Queue = &q
	}
	return st
}

// Close 依序關閉佇列、快取與儲存
func (s *Service) Close() error {
	if s.queueManager != nil {
		s.queueManager.Close()
	}
	var errs []error
	if err := s.cacheManager.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
