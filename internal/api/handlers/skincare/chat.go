package skincare

import (
	"net/http"

	"skincare-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest 問答請求
type ChatRequest struct {
	Question string `json:"question" binding:"required"`
	ProfileRequest
}

// ChatResponse 問答回應
type ChatResponse struct {
	Answer string `json:"answer"`
}

// HandleChat 回答關於最近分析結果的問題
func (h *Handler) HandleChat(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	var req ChatRequest
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

	var lastReport *common.AnalysisReport
	if h.reportStore != nil {
		var err error
		lastReport, err = h.reportStore.LoadLastReport(c.Request.Context(), req.User)
		if err != nil {
			common.LogWarn("Failed to load last report",
				zap.Error(err),
				zap.String("request_id", requestID))
		}
	}

	answer, err := h.chatSvc.Ask(c.Request.Context(), profile, req.Question, lastReport)
	if err != nil {
		common.LogError("Chat request failed",
			zap.Error(err),
			zap.String("request_id", requestID))
		writeCustomError(c, common.ErrAIServiceError)
		return
	}

	common.LogInfo("Chat request completed",
		zap.String("request_id", requestID))

	c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}
