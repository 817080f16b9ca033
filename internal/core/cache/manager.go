// Package cache 解碼結果快取，以文件內容雜湊為鍵
package cache

import (
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"recipe-book/internal/core/model"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/pkg/common"
)

const cacheType = "decode"

// Manager 緩存管理器；nil 表示快取停用，所有方法都可安全呼叫
type Manager struct {
	lru     *expirable.LRU[string, *model.Recipe]
	maxSize int
	stats   stats
}

type stats struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats 緩存統計
type Stats struct {
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	HitRatio  float64 `json:"hit_ratio"`
}

// NewManager 創建新的緩存管理器，停用時回傳 nil
func NewManager(cfg config.CacheConfig) *Manager {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &Manager{maxSize: cfg.MaxSize}
	m.lru = expirable.NewLRU[string, *model.Recipe](cfg.MaxSize, func(string, *model.Recipe) {
		m.stats.evictions.Add(1)
	}, cfg.TTL)

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
	)
	return m
}

// Key 文件內容的快取鍵
func Key(text string) string {
	return "doc:" + common.HashString(text)
}

// Get 以文件內容查詢已解碼的食譜
func (m *Manager) Get(text string) (*model.Recipe, bool) {
	if m == nil {
		return nil, false
	}
	key := Key(text)
	r, ok := m.lru.Get(key)
	if !ok {
		m.stats.misses.Add(1)
		common.LogCacheMiss(cacheType, key)
		return nil, false
	}
	m.stats.hits.Add(1)
	common.LogCacheHit(cacheType, key)
	return r.Clone(), true
}

// Set 儲存解碼結果的副本；Get 也回傳副本，呼叫者之間不共用同一份食譜
func (m *Manager) Set(text string, r *model.Recipe) {
	if m == nil || r == nil {
		return
	}
	m.lru.Add(Key(text), r.Clone())
}

// GetStats 獲取緩存統計信息
func (m *Manager) GetStats() Stats {
	if m == nil {
		return Stats{}
	}
	s := Stats{
		Size:      m.lru.Len(),
		MaxSize:   m.maxSize,
		Hits:      m.stats.hits.Load(),
		Misses:    m.stats.misses.Load(),
		Evictions: m.stats.evictions.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRatio = float64(s.Hits) / float64(total)
	}
	return s
}

// Close 清空快取
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.lru.Purge()
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits.Load()),
		zap.Int64("未命中次數", m.stats.misses.Load()),
		zap.Int64("淘汰次數", m.stats.evictions.Load()),
	)
	return nil
}
