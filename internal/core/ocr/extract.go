package ocr

import (
	"regexp"
	"strings"

	"skincare-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// 成分表段落的起始標題，涵蓋常見語言的包裝寫法
var sectionHeaders = []string{
	"active ingredients",
	"ingredients",
	"ingrédients",
	"ingredientes",
	"成分",
	"composants",
	"composition",
	"contains",
}

// 成分表結束的訊號：經銷資訊、網址、容量標示、連續空白
var endMarkerPattern = regexp.MustCompile(`(?i)(distribut|product of|made in|www\.|http|\d+\s*(ml|floz|g|oz)\b| {2,})`)

// OCR 常見誤判的修正表，由實際包裝照片的錯誤累積而來
var ocrCorrections = map[string]string{
	"Glydern":       "Glycerin",
	"Glycern":       "Glycerin",
	"Centagaythrty": "Cetearyl Alcohol",
	"Propamediole":  "Propanediol",
	"Fanthenol":     "Panthenol",
	"Niacinamde":    "Niacinamide",
	"Hyaluronc":     "Hyaluronic",
	"Aqua":          "Water",
	"Eau":           "Water",
	"Tocopheral":    "Tocopherol",
	"Dimethicon":    "Dimethicone",
}

// ExtractIngredients 從 OCR 文字中定位成分表段落並切出成分名稱清單
// 找不到段落標題時退回整段文字逐行解析
func ExtractIngredients(rawText string) []string {
	lines := strings.Split(rawText, "\n")

	start := locateSection(lines)
	if start == -1 {
		common.LogDebug("找不到成分段落標題，改用全文解析")
		start = 0
	}

	var items []string
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		// 空行視為段落結束（但段落第一行除外）
		if line == "" {
			if i > start && len(items) > 0 {
				break
			}
			continue
		}

		// 移除標題前綴，保留同一行標題後面的成分
		if i == start {
			line = stripHeader(line)
			if line == "" {
				continue
			}
		}

		// 碰到結束訊號就截斷
		if loc := endMarkerPattern.FindStringIndex(line); loc != nil {
			line = strings.TrimSpace(line[:loc[0]])
			if line != "" {
				items = append(items, common.SplitIngredientLine(line)...)
			}
			break
		}

		items = append(items, common.SplitIngredientLine(line)...)
	}

	corrected := make([]string, 0, len(items))
	for _, item := range items {
		name := cleanIngredientName(CorrectOCRErrors(item))
		// 清完剩不到三個字元的多半是雜訊
		if len(name) <= 2 {
			continue
		}
		corrected = append(corrected, name)
	}

	result := common.DedupPreservingOrder(corrected)
	common.LogInfo("成分擷取完成",
		zap.Int("count", len(result)),
	)
	return result
}

// locateSection 找出第一個包含段落標題的行
func locateSection(lines []string) int {
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, header := range sectionHeaders {
			if strings.Contains(lower, header) {
				return i
			}
		}
	}
	return -1
}

// stripHeader 去掉行首的段落標題與後面的冒號
func stripHeader(line string) string {
	lower := strings.ToLower(line)
	for _, header := range sectionHeaders {
		if idx := strings.Index(lower, header); idx != -1 {
			rest := line[idx+len(header):]
			rest = strings.TrimLeft(rest, ":：-– \t")
			return strings.TrimSpace(rest)
		}
	}
	return line
}

// 修正後仍殘留的標點，會讓去重失效（"Glycerin." 與 "Glycerin"）
var residualPunctPattern = regexp.MustCompile(`[:.,]`)

// cleanIngredientName 去除殘留標點與容量標示
func cleanIngredientName(name string) string {
	name = residualPunctPattern.ReplaceAllString(name, "")
	name = common.StripSizeTokens(name)
	return common.CollapseWhitespace(name)
}

// CorrectOCRErrors 套用誤判修正表，逐字比對
func CorrectOCRErrors(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if fixed, ok := ocrCorrections[w]; ok {
			words[i] = fixed
		}
	}
	return strings.Join(words, " ")
}
