package firestore

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient はFirestoreクライアントを作成する
// 認証情報ファイルが見つからない場合はデフォルト認証を使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
	}

	var client *firestore.Client
	var err error

	if credentialsFile == "" {
		log.Printf("☁️ デフォルト認証を使用")
		client, err = firestore.NewClient(ctx, projectID)
	} else if _, statErr := os.Stat(credentialsFile); statErr != nil {
		log.Printf("⚠️ Credentials file not found: %s, trying with default authentication", credentialsFile)
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		log.Printf("📄 Using credentials file: %s", credentialsFile)
		client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	log.Printf("✅ Firestore client initialized for project: %s", projectID)
	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
