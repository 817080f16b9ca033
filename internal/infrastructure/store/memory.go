package store

import (
	"context"
	"slices"
	"sync"

	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/model"
)

// MemoryStore 程序內的儲存，保留插入順序
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]string)}
}

func (s *MemoryStore) Save(ctx context.Context, r *model.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text := codec.Encode(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[r.Name]; !ok {
		s.order = append(s.order, r.Name)
	}
	s.docs[r.Name] = text
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[name]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{Name: name, Text: text}, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Document{Name: name, Text: s.docs[name]})
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return ErrNotFound
	}
	delete(s.docs, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return nil
}

func (s *MemoryStore) Close() error { return nil }
