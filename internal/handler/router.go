package handler

import (
	"TeruelTrip-App/internal/domain/model"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter はAPIのルーティングとミドルウェアを設定したエンジンを返す
func NewRouter(tripHandler *TripHandler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("❌ panic: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": model.APIMsgInternalServerError})
	}))
	r.Use(cors.New(corsConfig(allowOrigins)))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": model.APIMsgMethodNotAllowed})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	{
		api.POST("/planTrip", tripHandler.PostPlanTrip)
		api.POST("/getTripIdeas", tripHandler.PostTripIdeas)
		api.POST("/checkTripUpdates", tripHandler.PostCheckTripUpdates)
	}

	return r
}

func corsConfig(allowOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodPost, http.MethodGet, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	cfg.MaxAge = 12 * time.Hour

	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	return cfg
}
