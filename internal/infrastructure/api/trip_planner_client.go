package api

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// StatusError はバックエンドが2xx以外を返したときのエラー
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// UserMessage はサーバーが返したエラーメッセージ
func (e *StatusError) UserMessage() string {
	return e.Message
}

// Is は 504 またはタイムアウトを示すメッセージを model.ErrTimeout として扱う
func (e *StatusError) Is(target error) bool {
	if target != model.ErrTimeout {
		return false
	}
	if e.StatusCode == http.StatusGatewayTimeout {
		return true
	}
	m := strings.ToLower(e.Message)
	return strings.Contains(m, "tardado demasiado") || strings.Contains(m, "timed out")
}

// TripPlannerClient はバックエンドの3つのエンドポイントを呼び出すHTTPクライアント
type TripPlannerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTripPlannerClient は新しいTripPlannerClientを作成する
// タイムアウトは呼び出し側のcontextで制御する
func NewTripPlannerClient(baseURL string, httpClient *http.Client) *TripPlannerClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &TripPlannerClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

var _ repository.TripPlanningRepository = (*TripPlannerClient)(nil)

// PlanTrip は /api/planTrip を呼び出す
func (c *TripPlannerClient) PlanTrip(ctx context.Context, req *model.SearchRequest) (*model.TripPlan, error) {
	var raw struct {
		Routes *[]model.Route `json:"routes"`
	}
	if err := c.post(ctx, "/api/planTrip", req, &raw); err != nil {
		return nil, err
	}
	if raw.Routes == nil {
		return nil, fmt.Errorf("%w: routes がありません", model.ErrInvalidResponse)
	}
	return &model.TripPlan{Routes: *raw.Routes}, nil
}

// SuggestTripIdeas は /api/getTripIdeas を呼び出す
func (c *TripPlannerClient) SuggestTripIdeas(ctx context.Context) ([]model.TripIdea, error) {
	var raw struct {
		Ideas *[]model.TripIdea `json:"ideas"`
	}
	if err := c.post(ctx, "/api/getTripIdeas", struct{}{}, &raw); err != nil {
		return nil, err
	}
	if raw.Ideas == nil {
		return nil, fmt.Errorf("%w: ideas がありません", model.ErrInvalidResponse)
	}
	return *raw.Ideas, nil
}

// CheckTripUpdate は /api/checkTripUpdates を呼び出す
func (c *TripPlannerClient) CheckTripUpdate(ctx context.Context, sub *model.Subscription) (*model.TripUpdate, error) {
	var update model.TripUpdate
	if err := c.post(ctx, "/api/checkTripUpdates", model.CheckTripUpdatesRequest{Subscription: sub}, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (c *TripPlannerClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("リクエストのシリアライズに失敗: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
		log.Printf("❌ %s: %v", path, serr)
		return serr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
	}
	return nil
}

// errorMessage はエラーボディの error フィールド、なければ本文そのものを返す
func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return http.StatusText(http.StatusInternalServerError)
	}
	return text
}

// IsStatus はエラーが指定ステータスのStatusErrorか判定する
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
