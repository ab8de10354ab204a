package repository

import (
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisKVStore はRedisに保存するKeyValueStore
type RedisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore はRedisに接続して疎通を確認する
func NewRedisKVStore(ctx context.Context, addr, password string) (*RedisKVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("Redisへの接続に失敗: %w", err)
	}
	return &RedisKVStore{client: client}, nil
}

var _ repository.KeyValueStore = (*RedisKVStore)(nil)

func (s *RedisKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Redisからの取得に失敗 (%s): %w", key, err)
	}
	return v, true, nil
}

func (s *RedisKVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("Redisへの保存に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *RedisKVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("Redisからの削除に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *RedisKVStore) Close() error {
	return s.client.Close()
}
