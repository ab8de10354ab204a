package repository

import (
	"TeruelTrip-App/internal/domain/repository"
	"TeruelTrip-App/internal/infrastructure/database"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const supabaseStorageTable = "planner_storage"

// SupabaseKVStore はSupabaseのREST API経由で planner_storage テーブルに保存するKeyValueStore
type SupabaseKVStore struct {
	client *database.SupabaseClient
}

func NewSupabaseKVStore(client *database.SupabaseClient) *SupabaseKVStore {
	return &SupabaseKVStore{client: client}
}

var _ repository.KeyValueStore = (*SupabaseKVStore)(nil)

// storageRow は planner_storage テーブルの行
type storageRow struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SupabaseKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	data, _, err := s.client.GetClient().From(supabaseStorageTable).Select("key,value,updated_at", "", false).Eq("key", key).Execute()
	if err != nil {
		return "", false, fmt.Errorf("Supabaseからの取得に失敗 (%s): %w", key, err)
	}

	var rows []storageRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", false, fmt.Errorf("SupabaseレスポンスのJSONアンマーシャル失敗: %w", err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

func (s *SupabaseKVStore) Set(ctx context.Context, key, value string) error {
	row := storageRow{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, _, err := s.client.GetClient().From(supabaseStorageTable).Upsert(row, "key", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("Supabaseへの保存に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *SupabaseKVStore) Delete(ctx context.Context, key string) error {
	_, _, err := s.client.GetClient().From(supabaseStorageTable).Delete("minimal", "").Eq("key", key).Execute()
	if err != nil {
		return fmt.Errorf("Supabaseからの削除に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *SupabaseKVStore) Close() error {
	return nil
}
