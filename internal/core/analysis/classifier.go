package analysis

import (
	"context"
	"encoding/json"
	"strings"

	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// InputKind 輸入類型
type InputKind string

const (
	KindProduct     InputKind = "product"
	KindIngredients InputKind = "ingredients"
	KindAmbiguous   InputKind = "ambiguous" // 僅啟發式路徑會回傳
)

// Classification 分類結果
type Classification struct {
	Kind        InputKind
	ProductName string   // Kind == KindProduct 時有值
	Ingredients []string // Kind == KindIngredients 時有值
}

// 常見成分關鍵字，用於啟發式判斷
var ingredientKeywords = []string{
	"water", "aqua", "glycerin", "niacinamide", "dimethicone",
	"panthenol", "tocopherol", "ceramide", "hyaluronic", "acid",
	"alcohol", "extract", "oil", "butter", "sodium", "glycol",
}

// 品牌與產品型態詞，出現多個時偏向產品名稱
var brandTerms = []string{
	"cerave", "cetaphil", "neutrogena", "ordinary", "roche",
	"cleanser", "moisturizer", "serum", "toner", "sunscreen", "cream", "lotion",
}

// ClassifyHeuristic 不呼叫模型的快速分類
// 逗號密度與成分關鍵字命中數高者視為成分清單，品牌詞多或全文很長
// 者視為產品名稱
func ClassifyHeuristic(text string) InputKind {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	commonHits := 0
	for _, kw := range ingredientKeywords {
		if strings.Contains(lower, kw) {
			commonHits++
		}
	}
	brandHits := 0
	for _, term := range brandTerms {
		if strings.Contains(lower, term) {
			brandHits++
		}
	}
	commas := strings.Count(text, ",")

	if commas >= 3 && commonHits > 3 {
		return KindIngredients
	}
	if brandHits > 2 {
		return KindProduct
	}
	if len(words) > 50 {
		// 長文大多是整張成分表的 OCR 輸出
		return KindIngredients
	}
	if commas >= 3 {
		return KindIngredients
	}
	if commonHits == 0 && brandHits == 0 && commas == 0 {
		return KindAmbiguous
	}
	return KindProduct
}

// Classify 以模型判斷輸入是產品名稱還是成分清單
// 模型失敗或輸出不合法時降級為 {product, 原文}，分類永不失敗
func (s *Service) Classify(ctx context.Context, text string) *Classification {
	resp, err := s.ai.ProcessRequest(ctx, classifySystemPrompt, text, groq.ChatOptions{
		Temperature: 0,
		MaxTokens:   500,
		JSONMode:    true,
	})
	if err != nil {
		common.LogWarn("分類請求失敗，降級為產品名稱", zap.Error(err))
		return fallbackClassification(text)
	}

	var raw struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := common.ParseModelJSON(resp.Content, &raw); err != nil {
		common.LogWarn("分類回應解析失敗，降級為產品名稱", zap.Error(err))
		return fallbackClassification(text)
	}

	switch InputKind(strings.ToLower(strings.TrimSpace(raw.Type))) {
	case KindProduct:
		var name string
		if err := json.Unmarshal(raw.Payload, &name); err != nil || strings.TrimSpace(name) == "" {
			return fallbackClassification(text)
		}
		return &Classification{Kind: KindProduct, ProductName: strings.TrimSpace(name)}

	case KindIngredients:
		var items []string
		if err := json.Unmarshal(raw.Payload, &items); err != nil || len(items) == 0 {
			return fallbackClassification(text)
		}
		cleaned := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				cleaned = append(cleaned, item)
			}
		}
		if len(cleaned) == 0 {
			return fallbackClassification(text)
		}
		return &Classification{Kind: KindIngredients, Ingredients: common.DedupPreservingOrder(cleaned)}

	default:
		common.LogWarn("分類回應類型不合法，降級為產品名稱",
			zap.String("type", raw.Type),
		)
		return fallbackClassification(text)
	}
}

func fallbackClassification(text string) *Classification {
	return &Classification{
		Kind:        KindProduct,
		ProductName: strings.TrimSpace(text),
	}
}
