package repository

import (
	"TeruelTrip-App/internal/domain/model"
	"context"
)

// TripPlanningRepository は旅程・アイデア・運行情報を提供するリポジトリインターフェース
// サーバー側ではAIモデル、クライアント側ではバックエンドAPIが実装する
type TripPlanningRepository interface {
	// PlanTrip は検索条件に対するルート一覧を取得する
	PlanTrip(ctx context.Context, req *model.SearchRequest) (*model.TripPlan, error)
	// SuggestTripIdeas は日帰り旅行のアイデアを取得する
	SuggestTripIdeas(ctx context.Context) ([]model.TripIdea, error)
	// CheckTripUpdate は購読中ルートの運行情報を取得する
	CheckTripUpdate(ctx context.Context, sub *model.Subscription) (*model.TripUpdate, error)
}

// LocationProvider は現在地を取得する
type LocationProvider interface {
	CurrentPosition(ctx context.Context) (*model.GeoPoint, error)
}
