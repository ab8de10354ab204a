package main

import (
	"TeruelTrip-App/internal/config"
	"TeruelTrip-App/internal/handler"
	"TeruelTrip-App/internal/infrastructure/ai"
	"TeruelTrip-App/internal/usecase"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}

	generator, err := newGenerator(cfg.AI)
	if err != nil {
		log.Fatalf("❌ AIクライアントの初期化に失敗: %v", err)
	}
	log.Printf("🤖 AIプロバイダー: %s", cfg.AI.Provider)

	planner := ai.NewAITripPlanningRepository(generator)
	tripUseCase := usecase.NewTripPlanningUseCase(planner, cfg.Timeouts)
	tripHandler := handler.NewTripHandler(tripUseCase)
	router := handler.NewRouter(tripHandler, cfg.Server.CORSAllowOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 TeruelTrip-App server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ サーバーの起動に失敗: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("🛑 サーバーを停止しています...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ サーバーの停止に失敗: %v", err)
	}
	log.Printf("✅ サーバーを停止しました")
}

func newGenerator(cfg config.AIConfig) (ai.JSONGenerator, error) {
	switch cfg.Provider {
	case "openai":
		client, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, ai.WithGeminiRateLimit(cfg.RateLimit)), nil
	}
}
