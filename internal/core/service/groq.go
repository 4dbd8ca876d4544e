package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GroqService Groq Chat Completions 服務
type GroqService struct {
	config *config.Config
	client *resty.Client
}

// ChatOptions 單次呼叫的生成參數
type ChatOptions struct {
	Model       string  // 空值時使用設定檔的預設模型
	Temperature float64
	MaxTokens   int  // 0 時使用設定檔的預設值
	JSONMode    bool // 要求回應為 JSON object
}

// NewGroqService 創建 Groq 服務
func NewGroqService(cfg *config.Config) *GroqService {
	client := resty.New().
		SetBaseURL(cfg.Groq.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Groq.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Groq.Timeout)

	return &GroqService{
		config: cfg,
		client: client,
	}
}

// ChatCompletion 發送 system + user 訊息並取得模型回應文字
func (s *GroqService) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (string, error) {
	if s.config.Groq.APIKey == "" {
		return "", common.ErrAIKeyMissing
	}

	model := opts.Model
	if model == "" {
		model = s.config.Groq.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = s.config.Groq.MaxTokens
	}

	messages := []map[string]interface{}{}
	if systemPrompt != "" {
		messages = append(messages, map[string]interface{}{
			"role":    "system",
			"content": systemPrompt,
		})
	}
	messages = append(messages, map[string]interface{}{
		"role":    "user",
		"content": userPrompt,
	})

	// 構建請求
	req := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"max_tokens":  maxTokens,
	}
	if opts.JSONMode {
		req["response_format"] = map[string]string{"type": "json_object"}
	}

	common.LogDebug("Groq request",
		zap.String("model", model),
		zap.Int("max_tokens", maxTokens),
		zap.Bool("json_mode", opts.JSONMode),
	)

	// 發送請求
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to Groq: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Groq API returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Groq response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in Groq response")
	}

	return result.Choices[0].Message.Content, nil
}
