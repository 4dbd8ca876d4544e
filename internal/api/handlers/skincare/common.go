package skincare

import (
	"net/http"

	"skincare-analyzer/internal/core/analysis"
	"skincare-analyzer/internal/core/chat"
	"skincare-analyzer/internal/core/ocr"
	"skincare-analyzer/internal/core/routine"
	"skincare-analyzer/internal/core/scraper"
	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/infrastructure/store"
	"skincare-analyzer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 肌膚保養 API 處理器
type Handler struct {
	config      *config.Config
	ocrClient   *ocr.Client
	resolver    *scraper.Resolver
	analysisSvc *analysis.Service
	routineSvc  *routine.Service
	chatSvc     *chat.Service
	reportStore *store.ReportStore
}

// NewHandler 創建處理器
func NewHandler(
	cfg *config.Config,
	ocrClient *ocr.Client,
	resolver *scraper.Resolver,
	analysisSvc *analysis.Service,
	routineSvc *routine.Service,
	chatSvc *chat.Service,
	reportStore *store.ReportStore,
) *Handler {
	return &Handler{
		config:      cfg,
		ocrClient:   ocrClient,
		resolver:    resolver,
		analysisSvc: analysisSvc,
		routineSvc:  routineSvc,
		chatSvc:     chatSvc,
		reportStore: reportStore,
	}
}

// ProfileRequest 請求中的膚況欄位
// User 是純字串識別，未帶時儲存層歸到 default
type ProfileRequest struct {
	SkinType string   `json:"skin_type" binding:"required"`
	Concerns []string `json:"concerns"`
	User     string   `json:"user"`
}

// parseProfile 解析並驗證膚況，失敗時已寫入 400 回應
func parseProfile(c *gin.Context, req ProfileRequest) (common.SkinProfile, bool) {
	profile := common.SkinProfile{
		SkinType: common.SkinType(req.SkinType),
		Concerns: req.Concerns,
	}
	if err := profile.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return common.SkinProfile{}, false
	}
	return profile, true
}

// writeCustomError 將業務錯誤轉為對應的 HTTP 回應
func writeCustomError(c *gin.Context, err error) {
	if ce, ok := err.(*common.CustomError); ok {
		c.JSON(ce.Status, gin.H{
			"error": ce.Message,
			"code":  ce.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
