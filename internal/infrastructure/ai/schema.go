package ai

import (
	"context"
	"encoding/json"
)

// Schema はレスポンスのJSONスキーマ（Gemini APIの responseSchema 形式）
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// String はスキーマをJSON文字列に変換する（プロンプトへの埋め込み用）
func (s *Schema) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func objectSchema(desc string, props map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "OBJECT", Description: desc, Properties: props, Required: required}
}

func arraySchema(desc string, items *Schema) *Schema {
	return &Schema{Type: "ARRAY", Description: desc, Items: items}
}

func stringSchema(desc string, enum ...string) *Schema {
	return &Schema{Type: "STRING", Description: desc, Enum: enum}
}

func numberSchema(desc string) *Schema {
	return &Schema{Type: "NUMBER", Description: desc}
}

// GenerationRequest はJSON生成の1回分のリクエスト
type GenerationRequest struct {
	Prompt            string
	SystemInstruction string
	Schema            *Schema
	Temperature       float64
}

// JSONGenerator はスキーマに従ったJSON文字列を生成するAIクライアント
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, req GenerationRequest) (string, error)
}
