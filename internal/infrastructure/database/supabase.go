package database

import (
	"errors"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient はSupabase REST API (PostgREST) のクライアント
type SupabaseClient struct {
	client *supabase.Client
}

// NewSupabaseClient はプロジェクトURLとanonキーからクライアントを作成する
func NewSupabaseClient(projectURL, anonKey string) (*SupabaseClient, error) {
	switch {
	case projectURL == "":
		return nil, errors.New("SUPABASE_URLが設定されていません")
	case anonKey == "":
		return nil, errors.New("SUPABASE_ANON_KEYが設定されていません")
	}

	client, err := supabase.NewClient(projectURL, anonKey, &supabase.ClientOptions{Schema: "public"})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの作成に失敗: %w", err)
	}
	return &SupabaseClient{client: client}, nil
}

func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.client
}

// HealthCheck はテーブルに1行だけ問い合わせて、APIに到達できテーブルが存在するか確認する
func (sc *SupabaseClient) HealthCheck(table string) error {
	if sc == nil || sc.client == nil {
		return errors.New("Supabaseクライアントが初期化されていません")
	}
	if _, _, err := sc.client.From(table).Select("key", "", false).Limit(1, "").Execute(); err != nil {
		return fmt.Errorf("Supabaseのテーブル %s に接続できません: %w", table, err)
	}
	return nil
}
