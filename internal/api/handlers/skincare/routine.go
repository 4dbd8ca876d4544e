package skincare

import (
	"net/http"

	"skincare-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoutineRequest 保養流程生成請求
type RoutineRequest struct {
	TimeOfDay string `json:"time_of_day" binding:"required"` // AM 或 PM
	ProfileRequest
}

// HandleRoutine 生成保養流程
// 有最近的分析報告時一併作為脈絡；生成失敗回 503
func (h *Handler) HandleRoutine(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
	}

	var req RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	timeOfDay := common.TimeOfDay(req.TimeOfDay)
	if timeOfDay != common.TimeAM && timeOfDay != common.TimePM {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "time_of_day must be AM or PM",
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

	doc := h.routineSvc.Generate(c.Request.Context(), profile, timeOfDay, lastReport)
	if doc == nil {
		writeCustomError(c, common.ErrAIServiceError)
		return
	}

	if h.reportStore != nil {
		if err := h.reportStore.SaveRoutine(c.Request.Context(), req.User, doc); err != nil {
			common.LogWarn("Failed to persist routine",
				zap.Error(err),
				zap.String("request_id", requestID))
		}
	}

	common.LogInfo("Routine request completed",
		zap.String("request_id", requestID),
		zap.String("time_of_day", string(timeOfDay)),
		zap.Int("steps", len(doc.Steps)))

	c.JSON(http.StatusOK, doc)
}

// HandleListRoutines 列出歷史保養流程，最新在前
func (h *Handler) HandleListRoutines(c *gin.Context) {
	if h.reportStore == nil {
		writeCustomError(c, common.ErrServiceUnavailable)
		return
	}

	routines, err := h.reportStore.ListRoutines(c.Request.Context(), c.Query("user"))
	if err != nil {
		common.LogError("Failed to list routines", zap.Error(err))
		writeCustomError(c, common.ErrInternalError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"routines": routines,
		"count":    len(routines),
	})
}

// HandleGetReport 取得最近一次分析報告
func (h *Handler) HandleGetReport(c *gin.Context) {
	if h.reportStore == nil {
		writeCustomError(c, common.ErrServiceUnavailable)
		return
	}

	report, err := h.reportStore.LoadLastReport(c.Request.Context(), c.Query("user"))
	if err != nil {
		common.LogError("Failed to load last report", zap.Error(err))
		writeCustomError(c, common.ErrInternalError)
		return
	}
	if report == nil {
		writeCustomError(c, common.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, report)
}
