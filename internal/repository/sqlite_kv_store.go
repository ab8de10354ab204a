package repository

import (
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteKVStore はローカルのSQLiteファイルに保存するKeyValueStore
type SQLiteKVStore struct {
	db *sql.DB
}

// NewSQLiteKVStore はSQLiteファイルを開き、テーブルがなければ作成する
func NewSQLiteKVStore(path string) (*SQLiteKVStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &SQLiteKVStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

var _ repository.KeyValueStore = (*SQLiteKVStore)(nil)

func (s *SQLiteKVStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS planner_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM planner_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("SQLiteからの取得に失敗 (%s): %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteKVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO planner_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
	if err != nil {
		return fmt.Errorf("SQLiteへの保存に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *SQLiteKVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM planner_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("SQLiteからの削除に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *SQLiteKVStore) Close() error {
	return s.db.Close()
}
