package scraper

import (
	"strings"

	"skincare-analyzer/internal/pkg/common"
)

// 成分文字後面常黏著的頁面雜訊，碰到就截斷
var stopPhrases = []string{
	"product type",
	"company",
	"shop",
	"medicine",
	"hair care",
	"baby care",
	"cosmetics",
	"contact",
	"terms",
	"refund",
	"policy",
	"track",
	"copyright",
	"cart",
	"mailing list",
}

// CleanIngredientText 清掉抓下來的成分文字中的頁面雜訊
// 先截斷停止詞之後的內容，再去 HTML 殘留與多餘空白
func CleanIngredientText(text string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, phrase := range stopPhrases {
		if idx := strings.Index(lower, phrase); idx != -1 && idx < cut {
			cut = idx
		}
	}
	text = text[:cut]

	text = common.StripHTMLTags(text)
	text = common.StripSizeTokens(text)
	return common.CollapseWhitespace(text)
}

// SplitIngredients 將清理後的成分文字切成去重後的成分清單
func SplitIngredients(text string) []string {
	items := common.SplitIngredientLine(text)
	return common.DedupPreservingOrder(items)
}
