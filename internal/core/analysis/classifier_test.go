package analysis

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHeuristic_IngredientList(t *testing.T) {
	text := "Water, Glycerin, Niacinamide, Panthenol, Cetearyl Alcohol, Sodium Hyaluronate"
	assert.Equal(t, KindIngredients, ClassifyHeuristic(text))
}

func TestClassifyHeuristic_ProductName(t *testing.T) {
	assert.Equal(t, KindProduct, ClassifyHeuristic("CeraVe Hydrating Cleanser"))
}

func TestClassifyHeuristic_Ambiguous(t *testing.T) {
	assert.Equal(t, KindAmbiguous, ClassifyHeuristic("something unrelated"))
}

func TestClassifyHeuristic_LongOCRText(t *testing.T) {
	// 超過 50 個字的長文視為成分表輸出
	text := ""
	for i := 0; i < 60; i++ {
		text += "word "
	}
	assert.Equal(t, KindIngredients, ClassifyHeuristic(text))
}

func TestClassify_ProductResponse(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletionJSON(t, map[string]interface{}{
			"type":    "product",
			"payload": "CeraVe Foaming Cleanser",
		}))
	})

	got := svc.Classify(context.Background(), "cerave foaming cleanser pls")
	assert.Equal(t, KindProduct, got.Kind)
	assert.Equal(t, "CeraVe Foaming Cleanser", got.ProductName)
}

func TestClassify_IngredientsResponse(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletionJSON(t, map[string]interface{}{
			"type":    "ingredients",
			"payload": []string{"Water", " Glycerin ", ""},
		}))
	})

	got := svc.Classify(context.Background(), "water, glycerin")
	require.Equal(t, KindIngredients, got.Kind)
	assert.Equal(t, []string{"Water", "Glycerin"}, got.Ingredients)
}

func TestClassify_InvalidTypeFallsBack(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatCompletionJSON(t, map[string]interface{}{
			"type":    "mystery",
			"payload": "whatever",
		}))
	})

	got := svc.Classify(context.Background(), "  some input text  ")
	assert.Equal(t, KindProduct, got.Kind)
	assert.Equal(t, "some input text", got.ProductName)
}

func TestClassify_UpstreamFailureFallsBack(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	got := svc.Classify(context.Background(), "CeraVe PM Lotion")
	assert.Equal(t, KindProduct, got.Kind)
	assert.Equal(t, "CeraVe PM Lotion", got.ProductName)
}
