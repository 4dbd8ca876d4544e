package skincare

import (
	"encoding/base64"
	"net/http"
	"strings"

	"skincare-analyzer/internal/core/analysis"
	"skincare-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeImageRequest 成分表照片分析請求
type AnalyzeImageRequest struct {
	Image string `json:"image" binding:"required"` // base64，可帶 data:image/ 前綴
	ProfileRequest
}

// AnalyzeNameRequest 產品名稱分析請求
type AnalyzeNameRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	ProfileRequest
}

// AnalyzeTextRequest 自由輸入分析請求，先分類再路由
// 文字與圖片擇一；給圖片時先 OCR 出全文再分類
type AnalyzeTextRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
	ProfileRequest
}

// AnalyzeResponse 分析回應
type AnalyzeResponse struct {
	Report      *common.AnalysisReport `json:"report"`
	Ingredients []string               `json:"ingredients"`
}

// HandleAnalyzeImage 處理成分表照片分析
func (h *Handler) HandleAnalyzeImage(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid request format",
			zap.Error(err),
			zap.String("request_id", requestID))
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

	imageData, err := decodeImagePayload(req.Image)
	if err != nil {
		common.LogWarn("Invalid image payload",
			zap.Error(err),
			zap.String("request_id", requestID))
		writeCustomError(c, common.ErrInvalidImageFormat)
		return
	}
	if int64(len(imageData)) > h.config.Image.MaxSizeBytes {
		writeCustomError(c, common.ErrInvalidImageSize)
		return
	}

	// OCR 辨識並擷取成分清單
	ingredients, err := h.ocrClient.Extract(c.Request.Context(), imageData)
	if err != nil {
		common.LogError("OCR extraction failed",
			zap.Error(err),
			zap.String("request_id", requestID))
		writeCustomError(c, err)
		return
	}

	h.analyzeAndRespond(c, requestID, req.User, profile, ingredients, "")
}

// HandleAnalyzeName 處理產品名稱分析
func (h *Handler) HandleAnalyzeName(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	var req AnalyzeNameRequest
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

	h.analyzeByName(c, requestID, req.User, profile, req.ProductName)
}

// HandleAnalyze 處理自由文字：先分類為產品名稱或成分清單，再路由
func (h *Handler) HandleAnalyze(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	var req AnalyzeTextRequest
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

	text := req.Text
	if text == "" {
		if req.Image == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Either text or image is required",
				"code":  common.ErrCodeInvalidRequest,
			})
			return
		}

		imageData, err := decodeImagePayload(req.Image)
		if err != nil {
			writeCustomError(c, common.ErrInvalidImageFormat)
			return
		}
		if int64(len(imageData)) > h.config.Image.MaxSizeBytes {
			writeCustomError(c, common.ErrInvalidImageSize)
			return
		}
		text, err = h.ocrClient.RecognizeText(c.Request.Context(), imageData)
		if err != nil {
			common.LogError("OCR recognition failed",
				zap.Error(err),
				zap.String("request_id", requestID))
			writeCustomError(c, err)
			return
		}
	}

	classification := h.analysisSvc.Classify(c.Request.Context(), text)
	common.LogInfo("輸入分類完成",
		zap.String("request_id", requestID),
		zap.String("kind", string(classification.Kind)),
	)

	switch classification.Kind {
	case analysis.KindIngredients:
		h.analyzeAndRespond(c, requestID, req.User, profile, classification.Ingredients, "")
	default:
		h.analyzeByName(c, requestID, req.User, profile, classification.ProductName)
	}
}

// analyzeByName 透過網路搜尋解析成分後分析
func (h *Handler) analyzeByName(c *gin.Context, requestID, user string, profile common.SkinProfile, productName string) {
	ingredients, sourceURL, err := h.resolver.Resolve(c.Request.Context(), productName)
	if err != nil {
		common.LogError("Ingredient resolution failed",
			zap.Error(err),
			zap.String("request_id", requestID))
		writeCustomError(c, err)
		return
	}
	if len(ingredients) == 0 {
		writeCustomError(c, common.ErrNoIngredientsFound)
		return
	}

	h.analyzeAndRespond(c, requestID, user, profile, ingredients, sourceURL)
}

// analyzeAndRespond 執行分析、保存報告並回應
func (h *Handler) analyzeAndRespond(c *gin.Context, requestID, user string, profile common.SkinProfile, ingredients []string, sourceURL string) {
	report := h.analysisSvc.Analyze(c.Request.Context(), profile, ingredients, sourceURL)

	if h.reportStore != nil {
		if err := h.reportStore.SaveReport(c.Request.Context(), user, report); err != nil {
			// 保存失敗不影響本次回應
			common.LogWarn("Failed to persist analysis report",
				zap.Error(err),
				zap.String("request_id", requestID))
		}
	}

	common.LogInfo("Analysis request completed",
		zap.String("request_id", requestID),
		zap.Int("ingredient_count", len(ingredients)),
		zap.Int("suitability_score", report.Overall.SuitabilityScore))

	c.JSON(http.StatusOK, AnalyzeResponse{
		Report:      report,
		Ingredients: ingredients,
	})
}

// decodeImagePayload 解開 base64 圖片，容許 data URL 前綴
func decodeImagePayload(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:image/") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, common.ErrInvalidImageFormat
		}
		payload = parts[1]
	}
	return base64.StdEncoding.DecodeString(payload)
}
