package ai

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// aiTripPlanningRepository は生成AIを使用してTripPlanningRepositoryを実装
type aiTripPlanningRepository struct {
	generator JSONGenerator
}

// NewAITripPlanningRepository は新しいaiTripPlanningRepositoryインスタンスを作成
func NewAITripPlanningRepository(generator JSONGenerator) repository.TripPlanningRepository {
	return &aiTripPlanningRepository{
		generator: generator,
	}
}

// PlanTrip は検索条件から旅程を生成する
func (r *aiTripPlanningRepository) PlanTrip(ctx context.Context, req *model.SearchRequest) (*model.TripPlan, error) {
	log.Printf("🤖 AIで旅程を生成中... (%s → %s, %s)", req.Origin, req.Destination, req.Date)

	text, err := r.generator.GenerateJSON(ctx, GenerationRequest{
		Prompt:            buildPlanTripPrompt(req),
		SystemInstruction: planTripSystemInstruction,
		Schema:            TripPlanSchema,
		Temperature:       planTripTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("AI呼び出しエラー: %w", err)
	}

	var raw struct {
		Routes *[]model.Route `json:"routes"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
	}
	if raw.Routes == nil {
		return nil, fmt.Errorf("%w: routes がありません", model.ErrInvalidResponse)
	}

	log.Printf("✅ 旅程生成完了: %d件のルート", len(*raw.Routes))
	return &model.TripPlan{Routes: *raw.Routes}, nil
}

// SuggestTripIdeas は日帰り旅行のアイデアを生成する
func (r *aiTripPlanningRepository) SuggestTripIdeas(ctx context.Context) ([]model.TripIdea, error) {
	log.Printf("🤖 AIで旅行アイデアを生成中...")

	text, err := r.generator.GenerateJSON(ctx, GenerationRequest{
		Prompt:            tripIdeasPrompt,
		SystemInstruction: tripIdeasSystemInstruction,
		Schema:            TripIdeasSchema,
		Temperature:       tripIdeasTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("AI呼び出しエラー: %w", err)
	}

	var raw struct {
		Ideas *[]model.TripIdea `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
	}
	if raw.Ideas == nil {
		return nil, fmt.Errorf("%w: ideas がありません", model.ErrInvalidResponse)
	}

	log.Printf("✅ 旅行アイデア生成完了: %d件", len(*raw.Ideas))
	return *raw.Ideas, nil
}

// CheckTripUpdate は購読中ルートの運行情報を生成する
func (r *aiTripPlanningRepository) CheckTripUpdate(ctx context.Context, sub *model.Subscription) (*model.TripUpdate, error) {
	log.Printf("🤖 AIで運行情報を生成中... (%s)", sub.Summary)

	text, err := r.generator.GenerateJSON(ctx, GenerationRequest{
		Prompt:            buildTripUpdatePrompt(sub),
		SystemInstruction: tripUpdateSystemInstruction,
		Schema:            TripUpdateSchema,
		Temperature:       tripUpdateTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("AI呼び出しエラー: %w", err)
	}

	var update model.TripUpdate
	if err := json.Unmarshal([]byte(text), &update); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
	}
	if update.Message == "" {
		return nil, fmt.Errorf("%w: message がありません", model.ErrInvalidResponse)
	}
	return &update, nil
}
