package repository

import (
	"TeruelTrip-App/internal/domain/repository"
	fsclient "TeruelTrip-App/internal/infrastructure/firestore"
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreStorageCollection = "plannerStorage"

// FirestoreKVStore はFirestoreのドキュメントに保存するKeyValueStore（キーをドキュメントIDに使う）
type FirestoreKVStore struct {
	client *fsclient.FirestoreClient
}

func NewFirestoreKVStore(client *fsclient.FirestoreClient) *FirestoreKVStore {
	return &FirestoreKVStore{client: client}
}

var _ repository.KeyValueStore = (*FirestoreKVStore)(nil)

type firestoreStorageDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (s *FirestoreKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.client.GetClient().Collection(firestoreStorageCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Firestoreからの取得に失敗 (%s): %w", key, err)
	}

	var data firestoreStorageDoc
	if err := doc.DataTo(&data); err != nil {
		return "", false, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return data.Value, true, nil
}

func (s *FirestoreKVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.GetClient().Collection(firestoreStorageCollection).Doc(key).Set(ctx, firestoreStorageDoc{
		Value:     value,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("Firestoreへの保存に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *FirestoreKVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.GetClient().Collection(firestoreStorageCollection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("Firestoreからの削除に失敗 (%s): %w", key, err)
	}
	return nil
}

func (s *FirestoreKVStore) Close() error {
	return s.client.Close()
}
