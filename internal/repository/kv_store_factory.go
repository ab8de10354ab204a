package repository

import (
	"TeruelTrip-App/internal/config"
	"TeruelTrip-App/internal/domain/repository"
	"TeruelTrip-App/internal/infrastructure/database"
	fsclient "TeruelTrip-App/internal/infrastructure/firestore"
	"context"
	"fmt"
	"log"
	"time"
)

// NewKeyValueStore は設定されたドライバーのKeyValueStoreを作成する
func NewKeyValueStore(ctx context.Context, cfg config.StorageConfig) (repository.KeyValueStore, error) {
	log.Printf("💾 ストレージドライバー: %s", cfg.Driver)

	switch cfg.Driver {
	case "", "memory":
		return NewMemoryKVStore(), nil
	case "sqlite":
		return NewSQLiteKVStore(cfg.SQLitePath)
	case "redis":
		return NewRedisKVStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	case "postgres":
		dsn, err := database.SupabaseDSN(cfg.SupabaseURL, cfg.SupabaseDBPassword)
		if err != nil {
			return nil, err
		}
		client, err := database.NewPostgreSQLClientWithRetry(ctx, dsn, 3, 2*time.Second)
		if err != nil {
			return nil, err
		}
		if err := client.HealthCheck(ctx); err != nil {
			client.Close()
			return nil, err
		}
		store, err := NewPostgresKVStore(ctx, client)
		if err != nil {
			client.Close()
			return nil, err
		}
		return store, nil
	case "supabase":
		client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return nil, err
		}
		if err := client.HealthCheck(supabaseStorageTable); err != nil {
			return nil, err
		}
		return NewSupabaseKVStore(client), nil
	case "firestore":
		client, err := fsclient.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		return NewFirestoreKVStore(client), nil
	default:
		return nil, fmt.Errorf("未対応のストレージドライバー: %s", cfg.Driver)
	}
}
