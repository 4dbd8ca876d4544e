package chat

import (
	"context"
	"fmt"

	aiservice "skincare-analyzer/internal/core/ai/service"
	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"
)

// Service 以最近一次分析報告為脈絡的問答服務
type Service struct {
	config *config.Config
	ai     *aiservice.Service
}

// NewService 創建問答服務
func NewService(cfg *config.Config, ai *aiservice.Service) *Service {
	return &Service{
		config: cfg,
		ai:     ai,
	}
}

const chatSystemPrompt = `You are a friendly skincare advisor. Answer the user's question in plain text, grounded in their skin profile and (when available) their latest product analysis report. Be concise and practical. Do not return JSON.`

// Ask 回答關於最近分析結果的問題，回應為純文字
func (s *Service) Ask(ctx context.Context, profile common.SkinProfile, question string, lastReport *common.AnalysisReport) (string, error) {
	reportSection := "No recent product analysis available."
	if lastReport != nil {
		if j, err := common.ToJSON(lastReport); err == nil {
			reportSection = j
		}
	}

	userPrompt := fmt.Sprintf(`User skin profile:
- Skin type: %s
- Skin concerns: %s

Latest product analysis report:
%s

Question: %s`,
		profile.SkinType,
		profile.ConcernsString(),
		reportSection,
		question,
	)

	resp, err := s.ai.ProcessRequest(ctx, chatSystemPrompt, userPrompt, groq.ChatOptions{
		Temperature: 0.5,
		MaxTokens:   800,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
