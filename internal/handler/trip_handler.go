package handler

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/usecase"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TripHandler は旅程計画APIのハンドラー
type TripHandler struct {
	tripUseCase usecase.TripPlanningUseCase
}

// NewTripHandler は新しいTripHandlerインスタンスを作成
func NewTripHandler(tripUseCase usecase.TripPlanningUseCase) *TripHandler {
	return &TripHandler{
		tripUseCase: tripUseCase,
	}
}

// PostPlanTrip は検索条件から旅程を生成するエンドポイント
// POST /api/planTrip
func (h *TripHandler) PostPlanTrip(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.APIMsgMissingFields})
		return
	}

	plan, err := h.tripUseCase.PlanTrip(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, model.APIMsgPlanTimeout, model.APIMsgPlanFailed)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// PostTripIdeas は日帰り旅行のアイデアを返すエンドポイント
// POST /api/getTripIdeas
func (h *TripHandler) PostTripIdeas(c *gin.Context) {
	resp, err := h.tripUseCase.SuggestTripIdeas(c.Request.Context())
	if err != nil {
		respondError(c, err, model.APIMsgIdeasTimeout, model.APIMsgIdeasFailed)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PostCheckTripUpdates は購読中ルートの運行情報を返すエンドポイント
// POST /api/checkTripUpdates
func (h *TripHandler) PostCheckTripUpdates(c *gin.Context) {
	var req model.CheckTripUpdatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": model.APIMsgMissingSubscription})
		return
	}

	update, err := h.tripUseCase.CheckTripUpdate(c.Request.Context(), &req)
	if err != nil {
		// 運行情報はタイムアウトも500で返す
		respondError(c, err, "", model.APIMsgUpdateFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": update.Message})
}

// respondError はエラーの種類に応じてステータスを決める
// timeoutMsg が空ならタイムアウトも500として扱う
func respondError(c *gin.Context, err error, timeoutMsg, failedMsg string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.Is(err, model.ErrTimeout) && timeoutMsg != "":
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": timeoutMsg})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failedMsg})
	}
}
