package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient はGemini APIとの通信を担当するクライアント
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// GeminiOption は GeminiClient の設定を変更する
type GeminiOption func(*GeminiClient)

// WithGeminiBaseURL はAPIのベースURLを差し替える
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(c *GeminiClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithGeminiRateLimit は呼び出し間隔の下限を設定する（0以下で無制限）
func WithGeminiRateLimit(interval time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		if interval > 0 {
			c.limiter = rate.NewLimiter(rate.Every(interval), 1)
		} else {
			c.limiter = nil
		}
	}
}

// NewGeminiClient は新しいGeminiClientインスタンスを作成
func NewGeminiClient(apiKey, model string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ JSONGenerator = (*GeminiClient)(nil)

// GeminiRequest はGemini APIへのリクエスト構造体
type GeminiRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content はリクエストの内容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part はテキスト部分
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig は生成パラメータ
type GenerationConfig struct {
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema  `json:"responseSchema,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
}

// GeminiResponse はGemini APIからのレスポンス構造体
type GeminiResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate は生成された候補
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateJSON はスキーマと温度を指定してJSON文字列を生成する
func (c *GeminiClient) GenerateJSON(ctx context.Context, req GenerationRequest) (string, error) {
	temperature := req.Temperature
	body := GeminiRequest{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: req.Prompt}},
			},
		},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   req.Schema,
			Temperature:      &temperature,
		},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &Content{Parts: []Part{{Text: req.SystemInstruction}}}
	}

	text, err := c.generate(ctx, body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GenerateContent はプロンプトだけを指定してテキストを生成する
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, GeminiRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	})
}

func (c *GeminiClient) generate(ctx context.Context, req GeminiRequest) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("Gemini APIキーが設定されていません")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("レート制限の待機中に中断: %w", err)
		}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("リクエストのシリアライズに失敗: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("レスポンスの読み取りに失敗: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API呼び出しエラー (status: %d): %s", resp.StatusCode, string(body))
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("レスポンスのパースに失敗: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("有効なレスポンスが生成されませんでした")
	}

	var sb strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
