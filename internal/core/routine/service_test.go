package routine

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

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Groq: config.GroqConfig{
			APIKey:       "test-key",
			Model:        "test-model",
			RoutineModel: "routine-model",
			BaseURL:      srv.URL,
			MaxTokens:    4000,
			Timeout:      5 * time.Second,
		},
	}
	groqSvc := groq.NewGroqService(cfg)
	aiSvc := aiservice.NewService(cfg, groqSvc, nil)
	return NewService(cfg, aiSvc)
}

func routineJSON(t *testing.T) []byte {
	t.Helper()
	content, err := json.Marshal(map[string]interface{}{
		"routine": []map[string]string{
			{"step": "Cleanser", "product": "Gentle Foam", "link": "BrandA", "description": "Wash face with lukewarm water."},
			{"step": "Moisturizer", "product": "Barrier Cream", "link": "BrandB", "description": "Apply on damp skin."},
		},
	})
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": string(content)}},
		},
	})
	require.NoError(t, err)
	return body
}

func testProfile() common.SkinProfile {
	return common.SkinProfile{SkinType: common.SkinDry, Concerns: []string{"dehydration"}}
}

func TestGenerate_Success(t *testing.T) {
	var gotModel string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		w.Write(routineJSON(t))
	})

	doc := svc.Generate(context.Background(), testProfile(), common.TimeAM, nil)
	require.NotNil(t, doc)
	assert.Equal(t, common.TimeAM, doc.TimeOfDay)
	assert.Len(t, doc.Steps, 2)
	assert.Equal(t, "Cleanser", doc.Steps[0].StepName)
	assert.False(t, doc.CreatedAt.IsZero())
	// 流程生成走專用模型
	assert.Equal(t, "routine-model", gotModel)
}

func TestGenerate_UpstreamFailureReturnsNil(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	doc := svc.Generate(context.Background(), testProfile(), common.TimePM, nil)
	assert.Nil(t, doc)
}

func TestGenerate_EmptyStepsReturnsNil(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"routine": []}`}},
			},
		})
		w.Write(body)
	})

	doc := svc.Generate(context.Background(), testProfile(), common.TimeAM, nil)
	assert.Nil(t, doc)
}
