package skincare

import (
	"net/http"

	"skincare-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CompareProduct 比較請求中的單一產品，名稱與成分清單擇一
type CompareProduct struct {
	ProductName string   `json:"product_name,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// CompareRequest 雙產品比較請求
type CompareRequest struct {
	Product1 CompareProduct `json:"product1" binding:"required"`
	Product2 CompareProduct `json:"product2" binding:"required"`
	ProfileRequest
}

// CompareResponse 比較回應
type CompareResponse struct {
	Comparison *common.Comparison     `json:"comparison"`
	Report1    *common.AnalysisReport `json:"report1"`
	Report2    *common.AnalysisReport `json:"report2"`
}

// HandleCompare 處理雙產品比較
// 兩個產品各自解析成分後並行分析，再交給模型比較
func (h *Handler) HandleCompare(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	profile, ok := parseProfile(c, req.ProfileRequest)
	if !ok {
		return
	}

	ingredients1, ok := h.resolveCompareProduct(c, requestID, req.Product1)
	if !ok {
		return
	}
	ingredients2, ok := h.resolveCompareProduct(c, requestID, req.Product2)
	if !ok {
		return
	}

	report1, report2 := h.analysisSvc.AnalyzePair(c.Request.Context(), profile, ingredients1, ingredients2)
	comparison := h.analysisSvc.Compare(c.Request.Context(), profile, report1, report2)

	common.LogInfo("Comparison request completed",
		zap.String("request_id", requestID),
		zap.Int("better_product", comparison.BetterProduct))

	c.JSON(http.StatusOK, CompareResponse{
		Comparison: comparison,
		Report1:    report1,
		Report2:    report2,
	})
}

// resolveCompareProduct 取得單一產品的成分清單，失敗時已寫入錯誤回應
func (h *Handler) resolveCompareProduct(c *gin.Context, requestID string, product CompareProduct) ([]string, bool) {
	if len(product.Ingredients) > 0 {
		return common.DedupPreservingOrder(product.Ingredients), true
	}
	if product.ProductName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Each product needs a product_name or an ingredients list",
			"code":  common.ErrCodeInvalidRequest,
		})
		return nil, false
	}

	ingredients, _, err := h.resolver.Resolve(c.Request.Context(), product.ProductName)
	if err != nil {
		common.LogError("Ingredient resolution failed",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("product", product.ProductName))
		writeCustomError(c, err)
		return nil, false
	}
	if len(ingredients) == 0 {
		writeCustomError(c, common.ErrNoIngredientsFound)
		return nil, false
	}
	return ingredients, true
}
