package repository

import (
	"TeruelTrip-App/internal/domain/model"
	"context"
)

// KeyValueStore は文字列キーでJSON文字列を保存する永続化インターフェース
type KeyValueStore interface {
	// Get は値を取得する。キーが存在しない場合は ok=false を返す
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RecentSearchRepository は最近の検索（最大5件、新しい順）を管理する
type RecentSearchRepository interface {
	List(ctx context.Context) ([]model.RecentSearch, error)
	// Save は同じキーの既存エントリを取り除いて先頭に追加する
	Save(ctx context.Context, search model.RecentSearch) error
}

// SubscriptionRepository はアラート購読（最大10件、新しい順）を管理する
type SubscriptionRepository interface {
	List(ctx context.Context) ([]model.Subscription, error)
	// Add は先頭に追加する。同じIDが既にある場合は何もしない
	Add(ctx context.Context, sub model.Subscription) error
	Remove(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
