package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"recipe-book/internal/core/codec"
	"recipe-book/internal/core/model"
	"recipe-book/internal/infrastructure/config"
)

// RedisStore 以單一 hash 保存文件，欄位為食譜名稱
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore 連線並測試
func NewRedisStore(ctx context.Context, cfg config.StoreConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreWithClient(client, cfg.RedisKey), nil
}

// NewRedisStoreWithClient 使用既有連線
func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "recipe-book:documents"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, r *model.Recipe) error {
	if err := s.client.HSet(ctx, s.key, r.Name, codec.Encode(r)).Err(); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (Document, error) {
	text, err := s.client.HGet(ctx, s.key, name).Result()
	if err == redis.Nil {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return Document{Name: name, Text: text}, nil
}

// List 依名稱排序；hash 本身沒有順序
func (s *RedisStore) List(ctx context.Context) ([]Document, error) {
	all, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	docs := make([]Document, 0, len(all))
	for name, text := range all {
		docs = append(docs, Document{Name: name, Text: text})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	n, err := s.client.HDel(ctx, s.key, name).Result()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
