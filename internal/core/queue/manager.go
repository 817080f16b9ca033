// Package queue 匯入文件的工作佇列，以固定數量的 worker 平行解碼
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"recipe-book/internal/core/model"
	"recipe-book/internal/infrastructure/config"
	"recipe-book/internal/pkg/common"
)

// DecodeFunc 將文件內容解碼為食譜
type DecodeFunc func(text string) (*model.Recipe, error)

// Document 待解碼的文件；Source 為來源標示（檔名、鍵或 URL）
type Document struct {
	Source string
	Text   string
}

// Request 隊列請求
type Request struct {
	Context  context.Context
	Document Document
	Result   chan Result
}

// Result 處理結果
type Result struct {
	Source string
	Recipe *model.Recipe
	Error  error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 隊列管理器
type Manager struct {
	cfg       config.QueueConfig
	decode    DecodeFunc
	queue     chan *Request
	done      chan struct{}
	// mu 保護 closed；送入隊列時持有讀鎖，Close 持有寫鎖
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	closeOnce sync.Once
	processed atomic.Int64
	failed    atomic.Int64
}

// NewManager 創建隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig, decode DecodeFunc) *Manager {
	m := &Manager{
		cfg:    cfg,
		decode: decode,
		queue:  make(chan *Request, cfg.MaxSize),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}
	common.LogInfo("匯入佇列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.process(id, req)
		}
	}
}

func (m *Manager) process(id int, req *Request) {
	res := Result{Source: req.Document.Source}
	if err := req.Context.Err(); err != nil {
		res.Error = err
	} else {
		res.Recipe, res.Error = m.decode(req.Document.Text)
	}
	m.processed.Add(1)
	if res.Error != nil {
		m.failed.Add(1)
		common.LogDebug("Document decode failed",
			zap.Int("worker", id),
			zap.String("source", req.Document.Source),
			zap.Error(res.Error),
		)
	}
	req.Result <- res
}

// Enqueue 將文件加入隊列；隊列已滿時回傳 common.ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, doc Document) (<-chan Result, error) {
	req := &Request{
		Context:  ctx,
		Document: doc,
		Result:   make(chan Result, 1),
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, common.ErrServiceUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case m.queue <- req:
		return req.Result, nil
	default:
		return nil, common.ErrQueueFull
	}
}

// DecodeAll 解碼全部文件，結果順序與輸入相同；隊列滿時等待空位
func (m *Manager) DecodeAll(ctx context.Context, docs []Document) []Result {
	results := make([]Result, len(docs))
	pending := make([]<-chan Result, len(docs))

	for i, doc := range docs {
		ch, err := m.enqueueWait(ctx, doc)
		if err != nil {
			results[i] = Result{Source: doc.Source, Error: err}
			continue
		}
		pending[i] = ch
	}
	for i, ch := range pending {
		if ch == nil {
			continue
		}
		select {
		case res := <-ch:
			results[i] = res
		case <-ctx.Done():
			results[i] = Result{Source: docs[i].Source, Error: ctx.Err()}
		}
	}
	return results
}

func (m *Manager) enqueueWait(ctx context.Context, doc Document) (<-chan Result, error) {
	req := &Request{Context: ctx, Document: doc, Result: make(chan Result, 1)}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, common.ErrServiceUnavailable
	}

	select {
	case m.queue <- req:
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: m.processed.Load(),
		FailedCount:    m.failed.Load(),
		MaxQueueSize:   m.cfg.MaxSize,
		Workers:        m.cfg.Workers,
	}
}

// Close 停止所有 worker 並等待結束；可重複呼叫
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()

		close(m.done)
		m.wg.Wait()
		// 尚未處理的請求一律回覆服務不可用
		for {
			select {
			case req := <-m.queue:
				req.Result <- Result{Source: req.Document.Source, Error: common.ErrServiceUnavailable}
			default:
				return
			}
		}
	})
}
