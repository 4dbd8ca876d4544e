package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractStrategy 從解析後的頁面取出成分文字，失敗回傳空字串
// 各策略按可靠度排序依次嘗試，第一個通過內容門檻的結果勝出
type extractStrategy func(doc *goquery.Document) string

var strategies = []extractStrategy{
	extractFromSummaryBlock,
	extractFromAttrMarkers,
	extractFromHeadingSiblings,
	extractFromHeadingAncestor,
	extractFromStructuredData,
	extractFromTableRows,
	extractFromRegex,
}

var ingredientLabelPattern = regexp.MustCompile(`(?i)Ingredients?\s*[:\-]?\s*(.*)`)

// ExtractIngredientText 依序套用所有策略，全數失敗回傳空字串
func ExtractIngredientText(doc *goquery.Document) string {
	for _, strategy := range strategies {
		if text := strategy(doc); text != "" {
			return CleanIngredientText(text)
		}
	}
	return ""
}

// extractFromSummaryBlock 處理可展開的成分區塊
// 電商頁常把完整成分放在 summary 元素後方的段落
func extractFromSummaryBlock(doc *goquery.Document) string {
	var result string
	doc.Find("summary").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.Contains(label, "ingredient") {
			return true
		}
		text := strings.TrimSpace(s.Parent().Find("p").Text())
		if looksLikeIngredientList(text, 20) {
			result = text
			return false
		}
		return true
	})
	return result
}

// extractFromAttrMarkers 找 class/id 帶有 ingredient 或 composition
// 標記的容器
func extractFromAttrMarkers(doc *goquery.Document) string {
	var result string
	selector := `[class*="ingredient"], [id*="ingredient"], [class*="composition"], [id*="composition"], [itemprop*="ingredient"]`
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if looksLikeIngredientList(text, 50) {
			result = text
			return false
		}
		return true
	})
	return result
}

// extractFromHeadingSiblings 找成分標題後緊鄰的文字節點
func extractFromHeadingSiblings(doc *goquery.Document) string {
	var result string
	doc.Find("h1, h2, h3, h4, h5, strong, b, dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.Contains(label, "ingredient") || len(label) > 40 {
			return true
		}
		// 往後掃最多三個兄弟節點
		sibling := s.Next()
		for i := 0; i < 3 && sibling.Length() > 0; i++ {
			text := strings.TrimSpace(sibling.Text())
			if looksLikeIngredientList(text, 50) {
				result = text
				return false
			}
			sibling = sibling.Next()
		}
		return true
	})
	return result
}

// extractFromHeadingAncestor 退而求其次，取成分標題的父容器全文
func extractFromHeadingAncestor(doc *goquery.Document) string {
	var result string
	doc.Find("h1, h2, h3, h4, h5, strong, b, dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(s.Text()))
		if !strings.Contains(label, "ingredient") || len(label) > 40 {
			return true
		}
		text := strings.TrimSpace(s.Parent().Text())
		if looksLikeIngredientList(text, 100) {
			result = text
			return false
		}
		return true
	})
	return result
}

// extractFromStructuredData 從 meta 標籤與 JSON-LD 區塊找成分宣告
func extractFromStructuredData(doc *goquery.Document) string {
	var result string
	doc.Find(`meta[property*="ingredient"], meta[name*="ingredient"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, _ := s.Attr("content")
		content = strings.TrimSpace(content)
		if looksLikeIngredientList(content, 50) {
			result = content
			return false
		}
		return true
	})
	if result != "" {
		return result
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := s.Text()
		if !strings.Contains(strings.ToLower(raw), "ingredient") {
			return true
		}
		matches := ingredientLabelPattern.FindStringSubmatch(raw)
		if len(matches) < 2 {
			return true
		}
		// JSON-LD 的成分值以引號收尾
		text := strings.TrimSpace(matches[1])
		if idx := strings.IndexAny(text, `"`); idx > 0 {
			text = text[:idx]
		}
		text = strings.Trim(text, `"\ `)
		if looksLikeIngredientList(text, 50) {
			result = text
			return false
		}
		return true
	})
	return result
}

// extractFromTableRows 成分表格：標頭格含 ingredient 時取同列其餘格
func extractFromTableRows(doc *goquery.Document) string {
	var result string
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		header := strings.ToLower(strings.TrimSpace(row.Find("th, td").First().Text()))
		if !strings.Contains(header, "ingredient") {
			return true
		}
		text := strings.TrimSpace(row.Find("td").Last().Text())
		if looksLikeIngredientList(text, 50) {
			result = text
			return false
		}
		return true
	})
	return result
}

// extractFromRegex 最後手段：對頁面純文字跑標籤正則
func extractFromRegex(doc *goquery.Document) string {
	body := doc.Find("body").Text()
	matches := ingredientLabelPattern.FindStringSubmatch(body)
	if len(matches) < 2 {
		return ""
	}
	text := strings.TrimSpace(matches[1])
	if looksLikeIngredientList(text, 50) {
		return text
	}
	return ""
}

// looksLikeIngredientList 內容門檻：夠長且含逗號才像成分表
func looksLikeIngredientList(text string, minLen int) bool {
	return len(text) > minLen && strings.Contains(text, ",")
}
