package common

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	numberPattern        = regexp.MustCompile(`\d+%?`)
	bulletPattern        = regexp.MustCompile(`[•\*▪➢–—]`)
	sizeTokenPattern     = regexp.MustCompile(`(?i)\d+\s*(ml|floz|g|oz)`)
	multiSpacePattern    = regexp.MustCompile(`\s{2,}`)
	htmlTagPattern       = regexp.MustCompile(`<[^>]+>`)
)

// CollapseWhitespace 將連續空白合併為一格並去除前後空白
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}

// StripHTMLTags 移除殘留的 HTML 標記
func StripHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, " ")
}

// SplitIngredientLine 清理單行成分文字並切成成分片段
// 去括號、去數字與百分比、項目符號轉逗號，逗號切分後丟棄過短片段並
// 統一首字大寫
func SplitIngredientLine(line string) []string {
	line = parentheticalPattern.ReplaceAllString(line, "")
	line = numberPattern.ReplaceAllString(line, "")
	line = bulletPattern.ReplaceAllString(line, ",")

	var out []string
	for _, item := range strings.Split(line, ",") {
		item = strings.TrimSpace(item)
		if len(item) < 3 {
			continue
		}
		out = append(out, TitleCase(item))
	}
	return out
}

// TitleCase 將每個單字轉為首字大寫
// strings.Title 已棄用且會動到縮寫內部，因此逐字處理
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// DedupPreservingOrder 不分大小寫去重並保留首見順序
func DedupPreservingOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// StripSizeTokens 移除殘留的容量標示（ml、floz、g、oz）
func StripSizeTokens(s string) string {
	return strings.TrimSpace(sizeTokenPattern.ReplaceAllString(s, ""))
}
