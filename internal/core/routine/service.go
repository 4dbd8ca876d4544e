package routine

import (
	"context"
	"fmt"
	"time"

	aiservice "skincare-analyzer/internal/core/ai/service"
	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 保養流程生成服務
// Generate 採軟性失敗：生成失敗回傳 nil，由呼叫端決定呈現方式
type Service struct {
	config *config.Config
	ai     *aiservice.Service
}

// NewService 創建保養流程服務
func NewService(cfg *config.Config, ai *aiservice.Service) *Service {
	return &Service{
		config: cfg,
		ai:     ai,
	}
}

const routineSystemPrompt = `You are a skincare routine planner. Based on the user's skin profile and their latest product analysis report, design a skincare routine. Return ONLY a JSON object:
{
  "routine": [
    {
      "step": "Cleanser",
      "product": "product name",
      "link": "brand name or product page",
      "description": "how and why to use this step"
    }
  ]
}

Rules:
1. An AM routine should cover cleansing, treatment, moisturizing and sunscreen.
2. A PM routine should cover cleansing, treatment and moisturizing; no sunscreen.
3. Keep the routine to at most 6 steps, ordered by application.
4. Respond with the JSON object only.`

// Generate 針對時段生成保養流程
// 最近的分析報告可為 nil，此時僅依膚況生成
func (s *Service) Generate(ctx context.Context, profile common.SkinProfile, timeOfDay common.TimeOfDay, lastReport *common.AnalysisReport) *common.RoutineDocument {
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

Design a %s skincare routine for this user.`,
		profile.SkinType,
		profile.ConcernsString(),
		reportSection,
		timeOfDay,
	)

	resp, err := s.ai.ProcessRequest(ctx, routineSystemPrompt, userPrompt, groq.ChatOptions{
		Model:       s.config.Groq.RoutineModel,
		Temperature: 0,
		MaxTokens:   1500,
		JSONMode:    true,
	})
	if err != nil {
		common.LogWarn("保養流程生成失敗",
			zap.String("time_of_day", string(timeOfDay)),
			zap.Error(err),
		)
		return nil
	}

	var doc common.RoutineDocument
	if err := common.ParseModelJSON(resp.Content, &doc); err != nil {
		common.LogWarn("保養流程回應解析失敗", zap.Error(err))
		return nil
	}
	if len(doc.Steps) == 0 {
		common.LogWarn("保養流程沒有任何步驟")
		return nil
	}

	doc.TimeOfDay = timeOfDay
	doc.CreatedAt = time.Now().UTC()

	common.LogInfo("保養流程生成完成",
		zap.String("time_of_day", string(timeOfDay)),
		zap.Int("steps", len(doc.Steps)),
	)
	return &doc
}
