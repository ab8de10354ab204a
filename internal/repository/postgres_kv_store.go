package repository

import (
	"TeruelTrip-App/internal/domain/repository"
	"TeruelTrip-App/internal/infrastructure/database"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresKVStore はPostgreSQL（Supabase含む）のテーブルに保存するKeyValueStore
type PostgresKVStore struct {
	client *database.PostgreSQLClient
}

// NewPostgresKVStore はテーブルがなければ作成する
func NewPostgresKVStore(ctx context.Context, client *database.PostgreSQLClient) (*PostgresKVStore, error) {
	_, err := client.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS planner_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, fmt.Errorf("planner_storageテーブルの作成に失敗: %w", err)
	}
	return &PostgresKVStore{client: client}, nil
}

var _ repository.KeyValueStore = (*PostgresKVStore)(nil)

func (s *PostgresKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.client.DB.QueryRowContext(ctx, `SELECT value FROM planner_storage WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("PostgreSQLからの取得に失敗 (%s): %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresKVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.DB.ExecContext(ctx, `
		INSERT INTO planner_storage (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value)
	if err != nil {
		return fmt.Errorf("PostgreSQLへの保存に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *PostgresKVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DB.ExecContext(ctx, `DELETE FROM planner_storage WHERE key = $1`, key); err != nil {
		return fmt.Errorf("PostgreSQLからの削除に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *PostgresKVStore) Close() error {
	return s.client.Close()
}
