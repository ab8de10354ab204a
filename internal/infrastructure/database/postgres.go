package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
type PostgreSQLClient struct {
	DB *sql.DB
}

// SupabaseDSN はSupabaseのプロジェクトURLとDBパスワードから接続文字列を組み立てる
// (https://xxx.supabase.co -> host=db.xxx.supabase.co port=6543)
func SupabaseDSN(supabaseURL, password string) (string, error) {
	if supabaseURL == "" {
		return "", fmt.Errorf("SUPABASE_URL環境変数が設定されていません")
	}
	if password == "" {
		return "", fmt.Errorf("SUPABASE_DB_PASSWORD環境変数が設定されていません")
	}

	host := strings.TrimPrefix(strings.TrimPrefix(supabaseURL, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")

	return fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, password,
	), nil
}

// NewPostgreSQLClient 新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient(ctx context.Context, dsn string) (*PostgreSQLClient, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	// 接続テスト
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// NewPostgreSQLClientWithRetry 接続に失敗した場合に指定回数までリトライする
func NewPostgreSQLClientWithRetry(ctx context.Context, dsn string, maxRetries int, interval time.Duration) (*PostgreSQLClient, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		client, err := NewPostgreSQLClient(ctx, dsn)
		if err == nil {
			return client, nil
		}
		lastErr = err
		log.Printf("⚠️ PostgreSQL接続失敗 (%d/%d): %v", attempt, maxRetries, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil, fmt.Errorf("PostgreSQLへの接続を%d回試行しましたが失敗: %w", maxRetries, lastErr)
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck(ctx context.Context) error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.PingContext(ctx)
}
