package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	aiservice "skincare-analyzer/internal/core/ai/service"
	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

// newTestService 建立指向假 Groq 伺服器的分析服務
func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Groq: config.GroqConfig{
			APIKey:    "test-key",
			Model:     "test-model",
			BaseURL:   srv.URL,
			MaxTokens: 4000,
			Timeout:   5 * time.Second,
		},
	}
	groqSvc := groq.NewGroqService(cfg)
	aiSvc := aiservice.NewService(cfg, groqSvc, nil)
	return NewService(cfg, aiSvc), srv
}

// chatCompletionJSON 包裝模型輸出為 chat completion 回應
func chatCompletionJSON(t *testing.T, content interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(content)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": string(raw)}},
		},
	})
	require.NoError(t, err)
	return body
}

func testProfile() common.SkinProfile {
	return common.SkinProfile{
		SkinType: common.SkinSensitive,
		Concerns: []string{"redness"},
	}
}

func TestAnalyze_BackfillsMissingIngredients(t *testing.T) {
	// 模型只回了一個成分，另外兩個必須補佔位條目
	modelReport := map[string]interface{}{
		"overall_assessment": map[string]interface{}{
			"safety_rating":      "safe",
			"barrier_impact":     "positive",
			"allergy_risk":       "low",
			"suitability_score":  4,
			"key_concerns":       []string{},
			"personalized_notes": "Looks fine.",
		},
		"ingredients": []map[string]interface{}{
			{
				"name":               "Water",
				"function":           "solvent",
				"safety":             "safe",
				"barrier_impact":     "neutral",
				"allergy_potential":  "low",
				"special_concerns":   []string{},
				"personalized_notes": "",
			},
		},
	}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletionJSON(t, modelReport))
	})

	ingredients := []string{"Water", "Glycerin", "Niacinamide"}
	report := svc.Analyze(context.Background(), testProfile(), ingredients, "")

	require.Len(t, report.Ingredients, 3)
	names := make(map[string]common.IngredientAssessment)
	for _, ing := range report.Ingredients {
		names[ing.Name] = ing
	}
	assert.Equal(t, "solvent", names["Water"].Function)
	assert.Equal(t, "Unknown", names["Glycerin"].Function)
	assert.Equal(t, common.SafetyCaution, names["Glycerin"].Safety)
	assert.Equal(t, []string{"Analysis incomplete"}, names["Niacinamide"].SpecialConcerns)
}

func TestAnalyze_NormalizesEnumCase(t *testing.T) {
	modelReport := map[string]interface{}{
		"overall_assessment": map[string]interface{}{
			"safety_rating":      "Safe",
			"barrier_impact":     "NEUTRAL",
			"allergy_risk":       " low ",
			"suitability_score":  9,
			"key_concerns":       []string{},
			"personalized_notes": "",
		},
		"ingredients": []map[string]interface{}{
			{
				"name":              "Water",
				"function":          "solvent",
				"safety":            "safe",
				"barrier_impact":    "neutral",
				"allergy_potential": "low",
			},
		},
	}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletionJSON(t, modelReport))
	})

	report := svc.Analyze(context.Background(), testProfile(), []string{"Water"}, "")
	assert.Equal(t, common.SafetySafe, report.Overall.SafetyRating)
	assert.Equal(t, common.BarrierNeutral, report.Overall.BarrierImpact)
	assert.Equal(t, common.AllergyLow, report.Overall.AllergyRisk)
	// 超出範圍的評分夾住在 5
	assert.Equal(t, 5, report.Overall.SuitabilityScore)
}

func TestAnalyze_UpstreamFailureProducesFallback(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	report := svc.Analyze(context.Background(), testProfile(), []string{"Water", "Glycerin"}, "https://example.com")

	require.NotNil(t, report)
	assert.Equal(t, common.SafetyCaution, report.Overall.SafetyRating)
	assert.Equal(t, common.BarrierNeutral, report.Overall.BarrierImpact)
	assert.Equal(t, common.AllergyMedium, report.Overall.AllergyRisk)
	assert.Equal(t, 3, report.Overall.SuitabilityScore)
	assert.Equal(t, []string{"Analysis unavailable"}, report.Overall.KeyConcerns)
	require.Len(t, report.Ingredients, 1)
	assert.Equal(t, "Unknown", report.Ingredients[0].Name)
	assert.Equal(t, "https://example.com", report.SourceURL)
}

func TestAnalyze_UnparseableResponseSingleCall(t *testing.T) {
	// 解析失敗只打一次上游，直接降級，不自動重試
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, err := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "not json at all"}},
			},
		})
		require.NoError(t, err)
		w.Write(body)
	})

	report := svc.Analyze(context.Background(), testProfile(), []string{"Water"}, "")

	assert.Equal(t, 1, calls)
	require.NotNil(t, report)
	assert.Equal(t, 3, report.Overall.SuitabilityScore)
	require.Len(t, report.Ingredients, 1)
	assert.Equal(t, "Unknown", report.Ingredients[0].Name)
}

func TestAnalyze_UpstreamFailureSingleCall(t *testing.T) {
	calls := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	svc.Analyze(context.Background(), testProfile(), []string{"Water"}, "")
	assert.Equal(t, 1, calls)
}

func TestAnalyze_SourceURLAttached(t *testing.T) {
	modelReport := map[string]interface{}{
		"overall_assessment": map[string]interface{}{
			"safety_rating":      "safe",
			"barrier_impact":     "neutral",
			"allergy_risk":       "low",
			"suitability_score":  5,
			"key_concerns":       []string{},
			"personalized_notes": "",
		},
		"ingredients": []map[string]interface{}{
			{
				"name":              "Water",
				"function":          "solvent",
				"safety":            "safe",
				"barrier_impact":    "neutral",
				"allergy_potential": "low",
			},
		},
	}

	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletionJSON(t, modelReport))
	})

	report := svc.Analyze(context.Background(), testProfile(), []string{"Water"}, "https://brand.com/product")
	assert.Equal(t, "https://brand.com/product", report.SourceURL)
}
