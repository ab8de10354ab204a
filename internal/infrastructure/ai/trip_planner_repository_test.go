package ai

import (
	"TeruelTrip-App/internal/domain/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	requests []GenerationRequest
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, req GenerationRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func TestAITripPlanningRepository_PlanTrip(t *testing.T) {
	t.Run("ルートを解析して返す", func(t *testing.T) {
		gen := &fakeGenerator{response: `{"routes":[{"summary":"Bus a Albarracín","totalDuration":"1h","totalPrice":4.5,"steps":[{"transportType":"Bus","origin":"Teruel","destination":"Albarracín","departureTime":"09:00","arrivalTime":"10:00","duration":"1h","price":4.5,"bookingInfo":{"type":"OnSite","details":"Comprar en taquilla"}}]}]}`}
		repo := NewAITripPlanningRepository(gen)

		plan, err := repo.PlanTrip(context.Background(), &model.SearchRequest{
			Origin: "Teruel", Destination: "Albarracín", Date: "2025-07-01", Passengers: 1,
		})

		require.NoError(t, err)
		require.Len(t, plan.Routes, 1)
		assert.Equal(t, "Bus a Albarracín", plan.Routes[0].Summary)
		assert.Equal(t, model.BookingOnSite, plan.Routes[0].Steps[0].BookingInfo.Type)

		require.Len(t, gen.requests, 1)
		assert.Equal(t, planTripSystemInstruction, gen.requests[0].SystemInstruction)
		assert.InDelta(t, 0.2, gen.requests[0].Temperature, 1e-9)
		assert.Same(t, TripPlanSchema, gen.requests[0].Schema)
	})

	t.Run("routes配列がなければ形式エラー", func(t *testing.T) {
		repo := NewAITripPlanningRepository(&fakeGenerator{response: `{"rutas":[]}`})
		_, err := repo.PlanTrip(context.Background(), &model.SearchRequest{Origin: "a", Destination: "b"})
		assert.ErrorIs(t, err, model.ErrInvalidResponse)
	})

	t.Run("空のroutes配列は正常", func(t *testing.T) {
		repo := NewAITripPlanningRepository(&fakeGenerator{response: `{"routes":[]}`})
		plan, err := repo.PlanTrip(context.Background(), &model.SearchRequest{Origin: "a", Destination: "b"})
		require.NoError(t, err)
		assert.Empty(t, plan.Routes)
	})

	t.Run("JSONでなければ形式エラー", func(t *testing.T) {
		repo := NewAITripPlanningRepository(&fakeGenerator{response: `lo siento`})
		_, err := repo.PlanTrip(context.Background(), &model.SearchRequest{Origin: "a", Destination: "b"})
		assert.ErrorIs(t, err, model.ErrInvalidResponse)
	})

	t.Run("生成エラーはラップして返す", func(t *testing.T) {
		repo := NewAITripPlanningRepository(&fakeGenerator{err: context.DeadlineExceeded})
		_, err := repo.PlanTrip(context.Background(), &model.SearchRequest{Origin: "a", Destination: "b"})
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestAITripPlanningRepository_SuggestTripIdeas(t *testing.T) {
	t.Run("アイデアを解析して返す", func(t *testing.T) {
		gen := &fakeGenerator{response: `{"ideas":[{"title":"Ruta mudéjar","description":"Torres.","origin":"Teruel","destination":"Albarracín"}]}`}
		ideas, err := NewAITripPlanningRepository(gen).SuggestTripIdeas(context.Background())

		require.NoError(t, err)
		require.Len(t, ideas, 1)
		assert.Equal(t, "Albarracín", ideas[0].Destination)
		assert.InDelta(t, 0.8, gen.requests[0].Temperature, 1e-9)
		assert.Equal(t, tripIdeasPrompt, gen.requests[0].Prompt)
	})

	t.Run("ideas配列がなければ形式エラー", func(t *testing.T) {
		_, err := NewAITripPlanningRepository(&fakeGenerator{response: `{}`}).SuggestTripIdeas(context.Background())
		assert.ErrorIs(t, err, model.ErrInvalidResponse)
	})
}

func TestAITripPlanningRepository_CheckTripUpdate(t *testing.T) {
	sub := &model.Subscription{ID: "x", Origin: "Teruel", Destination: "Cella", Summary: "Tren a Cella", Date: "2025-07-01"}

	t.Run("メッセージを返す", func(t *testing.T) {
		gen := &fakeGenerator{response: `{"message":"Todo en orden."}`}
		update, err := NewAITripPlanningRepository(gen).CheckTripUpdate(context.Background(), sub)

		require.NoError(t, err)
		assert.Equal(t, "Todo en orden.", update.Message)
		assert.InDelta(t, 0.9, gen.requests[0].Temperature, 1e-9)
		assert.Contains(t, gen.requests[0].Prompt, "Tren a Cella")
		assert.Contains(t, gen.requests[0].Prompt, "2025-07-01")
	})

	t.Run("メッセージが空ならエラー", func(t *testing.T) {
		_, err := NewAITripPlanningRepository(&fakeGenerator{response: `{"message":""}`}).CheckTripUpdate(context.Background(), sub)
		assert.ErrorIs(t, err, model.ErrInvalidResponse)
	})
}

func TestBuildPlanTripPrompt(t *testing.T) {
	t.Run("出発地と目的地が同じならタクシー連絡先のプロンプト", func(t *testing.T) {
		p := buildPlanTripPrompt(&model.SearchRequest{Origin: "Gea", Destination: " gea ", Passengers: 2, IsWheelchairAccessible: true})
		assert.Contains(t, p, "servicios de taxi")
		assert.Contains(t, p, "2 pasajero(s)")
		assert.Contains(t, p, "accesible para silla de ruedas")
		assert.NotContains(t, p, "INCLUYE EL TREN")
	})

	t.Run("現在地からのオンデマンドタクシーはタクシー連絡先のプロンプト", func(t *testing.T) {
		p := buildPlanTripPrompt(&model.SearchRequest{
			Origin:         model.CurrentLocationLabel,
			Destination:    "Teruel",
			Passengers:     1,
			IsTaxiOnDemand: true,
			OriginCoords:   &model.GeoPoint{Lat: 40.4, Lng: -1.4},
		})
		assert.Contains(t, p, "servicios de taxi")
		assert.Contains(t, p, "bajo demanda")
		assert.Contains(t, p, "latitud 40.4 y longitud -1.4")
	})

	t.Run("通常の検索は公共交通のプロンプト", func(t *testing.T) {
		p := buildPlanTripPrompt(&model.SearchRequest{
			Origin: "Teruel", Destination: "Cantavieja", Date: "2025-07-01", Passengers: 3,
			IsOnDemand: true, FindAccommodation: true,
		})
		assert.Contains(t, p, `desde "Teruel" hasta "Cantavieja"`)
		assert.Contains(t, p, "3 pasajero(s)")
		assert.Contains(t, p, "'2025-07-01'")
		assert.Contains(t, p, "transporte a demanda")
		assert.Contains(t, p, "sugiere un taxi local")
		assert.Contains(t, p, "alojamiento en Cantavieja")
		assert.Contains(t, p, "INCLUYE EL TREN")
	})

	t.Run("座標があっても現在地でなければ座標を使わない", func(t *testing.T) {
		p := buildPlanTripPrompt(&model.SearchRequest{
			Origin: "Teruel", Destination: "Cella", Passengers: 1,
			OriginCoords: &model.GeoPoint{Lat: 1, Lng: 2},
		})
		assert.NotContains(t, p, "coordenadas latitud")
	})
}
