package analysis

import (
	"fmt"

	"skincare-analyzer/internal/pkg/common"
)

// 分析提示詞，回應必須是 JSON object，枚舉值固定小寫英文
const analysisSystemPrompt = `You are a cosmetic chemist and dermatology consultant. You analyze skincare product ingredient lists for a specific user and return ONLY a JSON object, no markdown, no explanations outside the JSON.

Rules:
1. Respond with a single valid JSON object and nothing else.
2. "safety_rating" and "safety" must be one of: "safe", "caution", "unsafe".
3. "barrier_impact" must be one of: "positive", "neutral", "negative".
4. "allergy_risk" and "allergy_potential" must be one of: "low", "medium", "high".
5. "suitability_score" is an integer from 1 to 5:
   5 = excellent match for this skin profile
   4 = good match
   3 = acceptable with minor concerns
   2 = poor match
   1 = very poor match, likely to cause problems
6. The "ingredients" array must contain exactly one entry for EVERY ingredient in the provided list, in the same order.
7. Suggest 2-3 alternative products in "alternative_products" when the suitability score is 3 or below; otherwise the array may be empty.`

const analysisSchemaExample = `{
  "overall_assessment": {
    "safety_rating": "caution",
    "barrier_impact": "neutral",
    "allergy_risk": "medium",
    "suitability_score": 3,
    "key_concerns": ["contains drying alcohol", "fragrance may irritate sensitive skin"],
    "personalized_notes": "Usable but patch test first given your sensitivity."
  },
  "ingredients": [
    {
      "name": "Water",
      "function": "solvent",
      "safety": "safe",
      "barrier_impact": "neutral",
      "allergy_potential": "low",
      "special_concerns": [],
      "personalized_notes": ""
    }
  ],
  "alternative_products": [
    {
      "brand": "CeraVe",
      "product": "Hydrating Facial Cleanser",
      "type": "cleanser",
      "reason": "fragrance-free and ceramide-rich",
      "key_ingredients": ["Ceramide NP", "Hyaluronic Acid"]
    }
  ]
}`

// buildAnalysisPrompt 組合使用者膚況與成分清單
func buildAnalysisPrompt(profile common.SkinProfile, ingredients []string) string {
	return fmt.Sprintf(`User skin profile:
- Skin type: %s
- Skin concerns: %s

Analyze the following skincare ingredient list for this user:
%s

Return a JSON object exactly matching this structure:
%s`,
		profile.SkinType,
		profile.ConcernsString(),
		common.FormatIngredientList(ingredients),
		analysisSchemaExample,
	)
}

// 分類提示詞：判斷輸入是產品名稱還是成分清單
const classifySystemPrompt = `You classify skincare-related text. Return ONLY a JSON object with two fields:
- "type": either "product" (a product or brand name) or "ingredients" (a list of cosmetic ingredients)
- "payload": for "product" the cleaned product name; for "ingredients" an array of individual ingredient name strings

Example for a product: {"type": "product", "payload": "CeraVe Foaming Cleanser"}
Example for ingredients: {"type": "ingredients", "payload": ["Water", "Glycerin", "Niacinamide"]}`

// 比較提示詞
const compareSystemPrompt = `You compare two skincare product analysis reports for the same user. Return ONLY a JSON object:
{
  "better_product": 1,
  "comparison_summary": "one paragraph explaining which product suits the user better and why",
  "key_differences": ["difference 1", "difference 2"]
}

"better_product" must be the integer 1 or 2, referring to the first or second report.`

// buildComparePrompt 組合兩份報告供模型比較
func buildComparePrompt(profile common.SkinProfile, report1JSON, report2JSON string) string {
	return fmt.Sprintf(`User skin profile:
- Skin type: %s
- Skin concerns: %s

Product 1 analysis report:
%s

Product 2 analysis report:
%s

Compare the two products for this user.`,
		profile.SkinType,
		profile.ConcernsString(),
		report1JSON,
		report2JSON,
	)
}
