package analysis

import (
	"context"
	"strings"

	aiservice "skincare-analyzer/internal/core/ai/service"
	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

const analysisTemperature = 0.2

// Service 成分分析服務
// Analyze 永不回傳錯誤：模型失敗時輸出降級報告，由內容呈現失敗狀態
type Service struct {
	config *config.Config
	ai     *aiservice.Service
}

// NewService 創建分析服務
func NewService(cfg *config.Config, ai *aiservice.Service) *Service {
	return &Service{
		config: cfg,
		ai:     ai,
	}
}

// Analyze 針對使用者膚況分析成分清單
// 模型輸出經修復解析與枚舉正規化後，強制補齊缺漏成分，確保報告中
// 每個輸入成分都有對應條目
func (s *Service) Analyze(ctx context.Context, profile common.SkinProfile, ingredients []string, sourceURL string) *common.AnalysisReport {
	ingredients = common.DedupPreservingOrder(ingredients)
	if len(ingredients) == 0 {
		return fallbackReport(sourceURL)
	}

	userPrompt := buildAnalysisPrompt(profile, ingredients)
	opts := groq.ChatOptions{
		Temperature: analysisTemperature,
		JSONMode:    true,
	}

	// 單次請求，失敗直接降級，不自動重試
	resp, err := s.ai.ProcessRequest(ctx, analysisSystemPrompt, userPrompt, opts)
	if err != nil {
		common.LogWarn("分析請求失敗，回傳降級報告", zap.Error(err))
		return fallbackReport(sourceURL)
	}

	var report common.AnalysisReport
	if err := common.ParseModelJSON(resp.Content, &report); err != nil {
		common.LogWarn("分析回應解析失敗，回傳降級報告", zap.Error(err))
		return fallbackReport(sourceURL)
	}

	normalizeReport(&report)
	if err := validateReport(&report); err != nil {
		common.LogWarn("分析報告驗證失敗，回傳降級報告", zap.Error(err))
		return fallbackReport(sourceURL)
	}

	ensureCompleteness(&report, ingredients)
	report.SourceURL = sourceURL

	common.LogInfo("成分分析完成",
		zap.Int("ingredient_count", len(report.Ingredients)),
		zap.Int("suitability_score", report.Overall.SuitabilityScore),
	)
	return &report
}

// normalizeReport 將枚舉值統一為小寫並修剪空白，夾住評分範圍
func normalizeReport(report *common.AnalysisReport) {
	report.Overall.SafetyRating = common.SafetyRating(normalizeEnum(string(report.Overall.SafetyRating)))
	report.Overall.BarrierImpact = common.BarrierImpact(normalizeEnum(string(report.Overall.BarrierImpact)))
	report.Overall.AllergyRisk = common.AllergyRisk(normalizeEnum(string(report.Overall.AllergyRisk)))
	if report.Overall.SuitabilityScore < 1 {
		report.Overall.SuitabilityScore = 1
	}
	if report.Overall.SuitabilityScore > 5 {
		report.Overall.SuitabilityScore = 5
	}

	for i := range report.Ingredients {
		ing := &report.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Safety = common.SafetyRating(normalizeEnum(string(ing.Safety)))
		ing.BarrierImpact = common.BarrierImpact(normalizeEnum(string(ing.BarrierImpact)))
		ing.AllergyPotential = common.AllergyRisk(normalizeEnum(string(ing.AllergyPotential)))
	}
}

func normalizeEnum(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// validateReport 檢查枚舉值是否落在允許集合內
func validateReport(report *common.AnalysisReport) error {
	if err := validateEnums(
		string(report.Overall.SafetyRating),
		string(report.Overall.BarrierImpact),
		string(report.Overall.AllergyRisk),
	); err != nil {
		return err
	}
	for i := range report.Ingredients {
		ing := &report.Ingredients[i]
		if ing.Name == "" {
			continue
		}
		// 單一成分的非法枚舉改為保守預設，不整份退件
		if validateEnums(string(ing.Safety), string(ing.BarrierImpact), string(ing.AllergyPotential)) != nil {
			applyPlaceholderFields(ing)
		}
	}
	return nil
}

func validateEnums(safety, barrier, allergy string) error {
	switch common.SafetyRating(safety) {
	case common.SafetySafe, common.SafetyCaution, common.SafetyUnsafe:
	default:
		return errInvalidEnum("safety", safety)
	}
	switch common.BarrierImpact(barrier) {
	case common.BarrierPositive, common.BarrierNeutral, common.BarrierNegative:
	default:
		return errInvalidEnum("barrier_impact", barrier)
	}
	switch common.AllergyRisk(allergy) {
	case common.AllergyLow, common.AllergyMedium, common.AllergyHigh:
	default:
		return errInvalidEnum("allergy_risk", allergy)
	}
	return nil
}

type enumError struct {
	field string
	value string
}

func (e *enumError) Error() string {
	return "invalid enum value for " + e.field + ": " + e.value
}

func errInvalidEnum(field, value string) error {
	return &enumError{field: field, value: value}
}

// ensureCompleteness 檢查並補充缺漏的成分條目
// 以不分大小寫的名稱比對，模型漏掉的成分補上佔位評估
func ensureCompleteness(report *common.AnalysisReport, ingredients []string) {
	present := make(map[string]struct{}, len(report.Ingredients))
	for _, ing := range report.Ingredients {
		present[strings.ToLower(strings.TrimSpace(ing.Name))] = struct{}{}
	}

	for _, name := range ingredients {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := present[key]; ok {
			continue
		}
		placeholder := common.IngredientAssessment{Name: name}
		applyPlaceholderFields(&placeholder)
		report.Ingredients = append(report.Ingredients, placeholder)
		common.LogDebug("補充缺漏成分條目",
			zap.String("name", name),
		)
	}
}

// applyPlaceholderFields 套用保守的佔位評估
func applyPlaceholderFields(ing *common.IngredientAssessment) {
	ing.Function = "Unknown"
	ing.Safety = common.SafetyCaution
	ing.BarrierImpact = common.BarrierNeutral
	ing.AllergyPotential = common.AllergyMedium
	ing.SpecialConcerns = []string{"Analysis incomplete"}
}

// fallbackReport 降級報告：保守評估加上單一 Unknown 成分條目
func fallbackReport(sourceURL string) *common.AnalysisReport {
	unknown := common.IngredientAssessment{Name: "Unknown"}
	applyPlaceholderFields(&unknown)

	return &common.AnalysisReport{
		Overall: common.OverallAssessment{
			SafetyRating:      common.SafetyCaution,
			BarrierImpact:     common.BarrierNeutral,
			AllergyRisk:       common.AllergyMedium,
			SuitabilityScore:  3,
			KeyConcerns:       []string{"Analysis unavailable"},
			PersonalizedNotes: "Analysis unavailable, please try again later.",
		},
		Ingredients: []common.IngredientAssessment{unknown},
		SourceURL:   sourceURL,
	}
}
