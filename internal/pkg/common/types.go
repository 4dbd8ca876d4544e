package common

import (
	"fmt"
	"strings"
	"time"
)

// SkinType 膚質類型
type SkinType string

const (
	SkinNormal      SkinType = "normal"
	SkinDry         SkinType = "dry"
	SkinOily        SkinType = "oily"
	SkinCombination SkinType = "combination"
	SkinSensitive   SkinType = "sensitive"
)

// SafetyRating 安全評級
type SafetyRating string

const (
	SafetySafe    SafetyRating = "safe"
	SafetyCaution SafetyRating = "caution"
	SafetyUnsafe  SafetyRating = "unsafe"
)

// BarrierImpact 屏障影響
type BarrierImpact string

const (
	BarrierPositive BarrierImpact = "positive"
	BarrierNeutral  BarrierImpact = "neutral"
	BarrierNegative BarrierImpact = "negative"
)

// AllergyRisk 過敏風險
type AllergyRisk string

const (
	AllergyLow    AllergyRisk = "low"
	AllergyMedium AllergyRisk = "medium"
	AllergyHigh   AllergyRisk = "high"
)

// TimeOfDay 保養時段
type TimeOfDay string

const (
	TimeAM TimeOfDay = "AM"
	TimePM TimeOfDay = "PM"
)

// SkinProfile 使用者膚況資料，單次分析期間不可變
type SkinProfile struct {
	SkinType SkinType `json:"skin_type"`
	Concerns []string `json:"concerns"`
}

// ConcernsString 將膚況問題串成提示詞可用的字串
func (p SkinProfile) ConcernsString() string {
	if len(p.Concerns) == 0 {
		return "none"
	}
	return strings.Join(p.Concerns, ", ")
}

// Validate 驗證膚質枚舉值
func (p SkinProfile) Validate() error {
	switch p.SkinType {
	case SkinNormal, SkinDry, SkinOily, SkinCombination, SkinSensitive:
		return nil
	default:
		return fmt.Errorf("invalid skin type: %s", p.SkinType)
	}
}

// OverallAssessment 產品整體評估
type OverallAssessment struct {
	SafetyRating      SafetyRating  `json:"safety_rating"`
	BarrierImpact     BarrierImpact `json:"barrier_impact"`
	AllergyRisk       AllergyRisk   `json:"allergy_risk"`
	SuitabilityScore  int           `json:"suitability_score"`
	KeyConcerns       []string      `json:"key_concerns"`
	PersonalizedNotes string        `json:"personalized_notes"`
}

// IngredientAssessment 單一成分評估
type IngredientAssessment struct {
	Name              string        `json:"name"`
	Function          string        `json:"function"`
	Safety            SafetyRating  `json:"safety"`
	BarrierImpact     BarrierImpact `json:"barrier_impact"`
	AllergyPotential  AllergyRisk   `json:"allergy_potential"`
	SpecialConcerns   []string      `json:"special_concerns"`
	PersonalizedNotes string        `json:"personalized_notes"`
}

// AlternativeProduct 替代產品建議
type AlternativeProduct struct {
	Brand          string   `json:"brand"`
	Product        string   `json:"product"`
	Type           string   `json:"type"`
	Reason         string   `json:"reason"`
	KeyIngredients []string `json:"key_ingredients"`
}

// AnalysisReport 成分分析報告
// 不變式：ingredients 必須對輸入成分表中每個不重複名稱各有一筆，缺漏由
// 佔位項補齊，不允許靜默丟棄
type AnalysisReport struct {
	Overall      OverallAssessment      `json:"overall_assessment"`
	Ingredients  []IngredientAssessment `json:"ingredients"`
	Alternatives []AlternativeProduct   `json:"alternative_products,omitempty"`
	SourceURL    string                 `json:"source_url,omitempty"`
}

// RoutineStep 保養流程單一步驟
type RoutineStep struct {
	StepName    string `json:"step"`
	Product     string `json:"product"`
	BrandOrLink string `json:"link"`
	Description string `json:"description"`
}

// RoutineDocument 保養流程文件，建立後不再修改
type RoutineDocument struct {
	TimeOfDay TimeOfDay     `json:"time_of_day"`
	Steps     []RoutineStep `json:"routine"`
	CreatedAt time.Time     `json:"created_at"`
}

// Comparison 雙產品比較結果
type Comparison struct {
	BetterProduct  int      `json:"better_product"`
	Summary        string   `json:"comparison_summary"`
	KeyDifferences []string `json:"key_differences"`
}

// FormatIngredientList 格式化成分清單供提示詞使用
func FormatIngredientList(ingredients []string) string {
	return strings.Join(ingredients, ", ")
}
