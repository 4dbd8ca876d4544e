package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
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
	return NewService(cfg, aiSvc)
}

func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func TestAsk_WithReportContext(t *testing.T) {
	var gotPrompt string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, m := range req.Messages {
			if m.Role == "user" {
				gotPrompt = m.Content
			}
		}
		w.Write(chatReply(t, "Yes, niacinamide suits oily skin."))
	})

	report := &common.AnalysisReport{
		Ingredients: []common.IngredientAssessment{
			{Name: "Niacinamide", Safety: common.SafetySafe},
		},
	}
	profile := common.SkinProfile{SkinType: common.SkinOily, Concerns: []string{"acne"}}

	answer, err := svc.Ask(context.Background(), profile, "Is this good for my skin?", report)
	require.NoError(t, err)
	assert.Equal(t, "Yes, niacinamide suits oily skin.", answer)
	// 報告內容要進到提示詞裡
	assert.Contains(t, gotPrompt, "Niacinamide")
	assert.Contains(t, gotPrompt, "Is this good for my skin?")
}

func TestAsk_WithoutReport(t *testing.T) {
	var gotPrompt string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, m := range req.Messages {
			if m.Role == "user" {
				gotPrompt = m.Content
			}
		}
		w.Write(chatReply(t, "Start with a gentle cleanser."))
	})

	profile := common.SkinProfile{SkinType: common.SkinDry}
	answer, err := svc.Ask(context.Background(), profile, "Where should I start?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Start with a gentle cleanser.", answer)
	assert.True(t, strings.Contains(gotPrompt, "No recent product analysis available."))
}

func TestAsk_UpstreamFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.Ask(context.Background(), common.SkinProfile{SkinType: common.SkinNormal}, "hello", nil)
	assert.Error(t, err)
}
