package repository

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// KVRecentSearchRepository は最近の検索をKeyValueStoreにJSON配列として保存する
// 変更のたびに一覧全体を読み書きする
type KVRecentSearchRepository struct {
	store repository.KeyValueStore
	key   string
}

// NewKVRecentSearchRepository は clientID で名前空間を分けたキーを使う（空なら共通キー）
func NewKVRecentSearchRepository(store repository.KeyValueStore, clientID string) repository.RecentSearchRepository {
	return &KVRecentSearchRepository{
		store: store,
		key:   NamespacedKey(clientID, model.RecentSearchesKey),
	}
}

func (r *KVRecentSearchRepository) List(ctx context.Context) ([]model.RecentSearch, error) {
	var searches []model.RecentSearch
	if err := loadJSONList(ctx, r.store, r.key, &searches); err != nil {
		return nil, err
	}
	return searches, nil
}

func (r *KVRecentSearchRepository) Save(ctx context.Context, search model.RecentSearch) error {
	searches, err := r.List(ctx)
	if err != nil {
		return err
	}

	key := search.Key()
	updated := make([]model.RecentSearch, 0, model.MaxRecentSearches)
	updated = append(updated, search)
	for _, s := range searches {
		if len(updated) >= model.MaxRecentSearches {
			break
		}
		if s.Key() == key {
			continue
		}
		updated = append(updated, s)
	}

	if err := saveJSONList(ctx, r.store, r.key, updated); err != nil {
		return err
	}
	log.Printf("💾 最近の検索を保存: %s → %s (%d件)", search.Origin, search.Destination, len(updated))
	return nil
}

// NamespacedKey はクライアントごとにストレージキーを分ける
func NamespacedKey(clientID, key string) string {
	if clientID == "" {
		return key
	}
	return clientID + ":" + key
}

// loadJSONList はキーの値をJSON配列として読み込む
// 破損したデータは空として扱い、キーを削除する
func loadJSONList[T any](ctx context.Context, store repository.KeyValueStore, key string, out *[]T) error {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("ストレージの読み込みに失敗 (%s): %w", key, err)
	}
	if !ok || raw == "" {
		*out = []T{}
		return nil
	}

	var list []T
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("⚠️ 破損したデータを削除します (%s): %v", key, err)
		if delErr := store.Delete(ctx, key); delErr != nil {
			log.Printf("❌ 破損データの削除に失敗 (%s): %v", key, delErr)
		}
		*out = []T{}
		return nil
	}
	if list == nil {
		list = []T{}
	}
	*out = list
	return nil
}

func saveJSONList[T any](ctx context.Context, store repository.KeyValueStore, key string, list []T) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("JSONマーシャル失敗 (%s): %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("ストレージへの書き込みに失敗 (%s): %w", key, err)
	}
	return nil
}
