package usecase

import (
	"TeruelTrip-App/internal/config"
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

type TripPlanningUseCase interface {
	// PlanTrip は検索条件を検証し、時間制限内で旅程を生成する
	PlanTrip(ctx context.Context, req *model.SearchRequest) (*model.TripPlan, error)

	// SuggestTripIdeas は時間制限内で日帰り旅行のアイデアを生成する
	SuggestTripIdeas(ctx context.Context) (*model.TripIdeasResponse, error)

	// CheckTripUpdate は購読中ルートの運行情報を生成する
	CheckTripUpdate(ctx context.Context, req *model.CheckTripUpdatesRequest) (*model.TripUpdate, error)
}

// tripPlanningUseCaseImpl はTripPlanningUseCaseの実装
type tripPlanningUseCaseImpl struct {
	planner  repository.TripPlanningRepository
	timeouts config.TimeoutConfig
}

// NewTripPlanningUseCase は新しいTripPlanningUseCaseインスタンスを作成
func NewTripPlanningUseCase(planner repository.TripPlanningRepository, timeouts config.TimeoutConfig) TripPlanningUseCase {
	return &tripPlanningUseCaseImpl{
		planner:  planner,
		timeouts: timeouts,
	}
}

func (u *tripPlanningUseCaseImpl) PlanTrip(ctx context.Context, req *model.SearchRequest) (*model.TripPlan, error) {
	if req == nil || req.MissingRequiredFields() {
		return nil, &model.ValidationError{Field: "request", Message: model.APIMsgMissingFields}
	}

	log.Printf("🔍 旅程検索開始 (%s → %s, %s, %d名, タクシー検索: %t)",
		req.Origin, req.Destination, req.Date, req.Passengers, req.WantsTaxiContacts())

	ctx, cancel := withTimeout(ctx, u.timeouts.PlanTrip)
	defer cancel()

	plan, err := u.planner.PlanTrip(ctx, req)
	if err != nil {
		log.Printf("❌ 旅程生成に失敗: %v", err)
		return nil, asTimeout(ctx, err)
	}

	log.Printf("✅ %d件のルートを返却", len(plan.Routes))
	return plan, nil
}

func (u *tripPlanningUseCaseImpl) SuggestTripIdeas(ctx context.Context) (*model.TripIdeasResponse, error) {
	ctx, cancel := withTimeout(ctx, u.timeouts.TripIdeas)
	defer cancel()

	ideas, err := u.planner.SuggestTripIdeas(ctx)
	if err != nil {
		log.Printf("❌ 旅行アイデア生成に失敗: %v", err)
		return nil, asTimeout(ctx, err)
	}
	return &model.TripIdeasResponse{Ideas: ideas}, nil
}

func (u *tripPlanningUseCaseImpl) CheckTripUpdate(ctx context.Context, req *model.CheckTripUpdatesRequest) (*model.TripUpdate, error) {
	if req == nil || req.Subscription == nil {
		return nil, &model.ValidationError{Field: "subscription", Message: model.APIMsgMissingSubscription}
	}

	ctx, cancel := withTimeout(ctx, u.timeouts.TripUpdate)
	defer cancel()

	update, err := u.planner.CheckTripUpdate(ctx, req.Subscription)
	if err != nil {
		log.Printf("❌ 運行情報の生成に失敗: %v", err)
		return nil, asTimeout(ctx, err)
	}
	return update, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// asTimeout は期限切れによる失敗を model.ErrTimeout に変換する
func asTimeout(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	return err
}
