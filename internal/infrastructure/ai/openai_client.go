package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient はOpenAI互換のChat Completions APIでJSONを生成するクライアント
type OpenAIClient struct {
	client  *goopenai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAIClient は新しいOpenAIClientを作成する。baseURLが空なら公式APIを使う
func NewOpenAIClient(apiKey, baseURL, model string, rateLimit time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing the OpenAI API key, set it in the OPENAI_API_KEY environment variable")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	c := &OpenAIClient{
		client: goopenai.NewClientWithConfig(config),
		model:  model,
	}
	if rateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Every(rateLimit), 1)
	}
	return c, nil
}

var _ JSONGenerator = (*OpenAIClient)(nil)

// GenerateJSON はJSONモードで応答を生成する
// スキーマはシステムメッセージに埋め込んで指示する
func (c *OpenAIClient) GenerateJSON(ctx context.Context, req GenerationRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("レート制限の待機中に中断: %w", err)
		}
	}

	system := req.SystemInstruction
	if req.Schema != nil {
		system += "\n\nResponde únicamente con un objeto JSON que siga este esquema: " + req.Schema.String()
	}

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: strings.TrimSpace(system)},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API呼び出しエラー: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("有効なレスポンスが生成されませんでした")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
