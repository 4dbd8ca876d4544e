package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// AnalyzePair 並行分析兩組成分清單
// 兩邊各自獨立降級，一邊失敗不影響另一邊
func (s *Service) AnalyzePair(ctx context.Context, profile common.SkinProfile, ingredients1, ingredients2 []string) (*common.AnalysisReport, *common.AnalysisReport) {
	var (
		wg      sync.WaitGroup
		report1 *common.AnalysisReport
		report2 *common.AnalysisReport
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		report1 = s.Analyze(ctx, profile, ingredients1, "")
	}()
	go func() {
		defer wg.Done()
		report2 = s.Analyze(ctx, profile, ingredients2, "")
	}()
	wg.Wait()

	return report1, report2
}

// Compare 比較兩份分析報告
// 模型輸出不合法時以適合度分數決定優勝者，比較永不失敗
func (s *Service) Compare(ctx context.Context, profile common.SkinProfile, report1, report2 *common.AnalysisReport) *common.Comparison {
	json1, err1 := common.ToJSON(report1)
	json2, err2 := common.ToJSON(report2)
	if err1 != nil || err2 != nil {
		return fallbackComparison(report1, report2)
	}

	userPrompt := buildComparePrompt(profile, json1, json2)
	resp, err := s.ai.ProcessRequest(ctx, compareSystemPrompt, userPrompt, groq.ChatOptions{
		Temperature: 0,
		MaxTokens:   1000,
		JSONMode:    true,
	})
	if err != nil {
		common.LogWarn("比較請求失敗，改用分數比較", zap.Error(err))
		return fallbackComparison(report1, report2)
	}

	var result common.Comparison
	if err := common.ParseModelJSON(resp.Content, &result); err != nil {
		common.LogWarn("比較回應解析失敗，改用分數比較", zap.Error(err))
		return fallbackComparison(report1, report2)
	}

	if result.BetterProduct != 1 && result.BetterProduct != 2 {
		common.LogWarn("比較結果 better_product 不合法，改用分數比較",
			zap.Int("better_product", result.BetterProduct),
		)
		return fallbackComparison(report1, report2)
	}
	if strings.TrimSpace(result.Summary) == "" {
		return fallbackComparison(report1, report2)
	}

	return &result
}

// fallbackComparison 以適合度分數決定優勝者
func fallbackComparison(report1, report2 *common.AnalysisReport) *common.Comparison {
	better := 1
	if report2.Overall.SuitabilityScore > report1.Overall.SuitabilityScore {
		better = 2
	}
	return &common.Comparison{
		BetterProduct: better,
		Summary: fmt.Sprintf(
			"Based on suitability scores (%d vs %d), product %d appears to be the better match.",
			report1.Overall.SuitabilityScore,
			report2.Overall.SuitabilityScore,
			better,
		),
		KeyDifferences: []string{"Detailed comparison unavailable"},
	}
}
