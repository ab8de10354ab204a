package usecase

import (
	"TeruelTrip-App/internal/config"
	"TeruelTrip-App/internal/domain/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlanner はブロックしたり失敗したりできるTripPlanningRepository
type fakePlanner struct {
	plan   *model.TripPlan
	ideas  []model.TripIdea
	update *model.TripUpdate
	err    error
	block  bool

	calls int
}

func (f *fakePlanner) wait(ctx context.Context) error {
	f.calls++
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakePlanner) PlanTrip(ctx context.Context, req *model.SearchRequest) (*model.TripPlan, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.plan, nil
}

func (f *fakePlanner) SuggestTripIdeas(ctx context.Context) ([]model.TripIdea, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.ideas, nil
}

func (f *fakePlanner) CheckTripUpdate(ctx context.Context, sub *model.Subscription) (*model.TripUpdate, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.update, nil
}

var shortTimeouts = config.TimeoutConfig{
	PlanTrip:   20 * time.Millisecond,
	TripIdeas:  20 * time.Millisecond,
	TripUpdate: 20 * time.Millisecond,
}

func validRequest() *model.SearchRequest {
	return &model.SearchRequest{Origin: "Teruel", Destination: "Albarracín", Date: "2025-07-01", Passengers: 1}
}

func TestTripPlanningUseCase_PlanTrip(t *testing.T) {
	t.Run("必須項目が欠けていればAIを呼ばずにバリデーションエラー", func(t *testing.T) {
		cases := map[string]*model.SearchRequest{
			"nil":      nil,
			"出発地なし":    {Destination: "b", Date: "2025-07-01", Passengers: 1},
			"目的地なし":    {Origin: "a", Date: "2025-07-01", Passengers: 1},
			"日付なし":     {Origin: "a", Destination: "b", Passengers: 1},
			"人数が0":     {Origin: "a", Destination: "b", Date: "2025-07-01"},
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				planner := &fakePlanner{}
				uc := NewTripPlanningUseCase(planner, shortTimeouts)

				_, err := uc.PlanTrip(context.Background(), req)

				require.Error(t, err)
				assert.True(t, model.IsValidationError(err))
				assert.Contains(t, err.Error(), model.APIMsgMissingFields)
				assert.Zero(t, planner.calls)
			})
		}
	})

	t.Run("成功時はプランを返す", func(t *testing.T) {
		planner := &fakePlanner{plan: &model.TripPlan{Routes: []model.Route{{Summary: "Bus"}}}}
		plan, err := NewTripPlanningUseCase(planner, shortTimeouts).PlanTrip(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Len(t, plan.Routes, 1)
	})

	t.Run("時間切れはErrTimeout", func(t *testing.T) {
		planner := &fakePlanner{block: true}
		_, err := NewTripPlanningUseCase(planner, shortTimeouts).PlanTrip(context.Background(), validRequest())
		assert.ErrorIs(t, err, model.ErrTimeout)
	})

	t.Run("形式エラーはそのまま返す", func(t *testing.T) {
		planner := &fakePlanner{err: model.ErrInvalidResponse}
		_, err := NewTripPlanningUseCase(planner, shortTimeouts).PlanTrip(context.Background(), validRequest())

		assert.ErrorIs(t, err, model.ErrInvalidResponse)
		assert.NotErrorIs(t, err, model.ErrTimeout)
	})
}

func TestTripPlanningUseCase_SuggestTripIdeas(t *testing.T) {
	t.Run("アイデアをレスポンスに包んで返す", func(t *testing.T) {
		planner := &fakePlanner{ideas: []model.TripIdea{{Title: "A"}, {Title: "B"}, {Title: "C"}}}
		resp, err := NewTripPlanningUseCase(planner, shortTimeouts).SuggestTripIdeas(context.Background())

		require.NoError(t, err)
		assert.Len(t, resp.Ideas, 3)
	})

	t.Run("時間切れはErrTimeout", func(t *testing.T) {
		_, err := NewTripPlanningUseCase(&fakePlanner{block: true}, shortTimeouts).SuggestTripIdeas(context.Background())
		assert.ErrorIs(t, err, model.ErrTimeout)
	})
}

func TestTripPlanningUseCase_CheckTripUpdate(t *testing.T) {
	t.Run("購読がなければバリデーションエラー", func(t *testing.T) {
		planner := &fakePlanner{}
		uc := NewTripPlanningUseCase(planner, shortTimeouts)

		_, err := uc.CheckTripUpdate(context.Background(), &model.CheckTripUpdatesRequest{})

		assert.True(t, model.IsValidationError(err))
		assert.Contains(t, err.Error(), model.APIMsgMissingSubscription)
		assert.Zero(t, planner.calls)
	})

	t.Run("運行情報を返す", func(t *testing.T) {
		planner := &fakePlanner{update: &model.TripUpdate{Message: "Todo en orden."}}
		update, err := NewTripPlanningUseCase(planner, shortTimeouts).CheckTripUpdate(context.Background(),
			&model.CheckTripUpdatesRequest{Subscription: &model.Subscription{ID: "x"}})

		require.NoError(t, err)
		assert.Equal(t, "Todo en orden.", update.Message)
	})

	t.Run("AIの失敗はそのまま返す", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewTripPlanningUseCase(&fakePlanner{err: boom}, shortTimeouts).CheckTripUpdate(context.Background(),
			&model.CheckTripUpdatesRequest{Subscription: &model.Subscription{ID: "x"}})
		assert.ErrorIs(t, err, boom)
	})
}
