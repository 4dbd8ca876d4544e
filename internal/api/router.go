package api

import (
	"context"
	"net/http"
	"time"

	"skincare-analyzer/internal/api/handlers/health"
	skincareHandler "skincare-analyzer/internal/api/handlers/skincare"
	"skincare-analyzer/internal/api/middleware"
	"skincare-analyzer/internal/core/ai/cache"
	aiservice "skincare-analyzer/internal/core/ai/service"
	"skincare-analyzer/internal/core/analysis"
	"skincare-analyzer/internal/core/chat"
	"skincare-analyzer/internal/core/ocr"
	"skincare-analyzer/internal/core/routine"
	"skincare-analyzer/internal/core/scraper"
	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/infrastructure/store"
	"skincare-analyzer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置：OCR + 搜尋 + 模型可能串在同一個請求裡
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (20MB)，base64 圖片比原始檔大三分之一
	maxBodySize = 20 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, reportStore *store.ReportStore) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 重複請求去重
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.Groq.Model),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化服務
	groqSvc := groq.NewGroqService(cfg)
	aiSvc := aiservice.NewService(cfg, groqSvc, cacheManager)
	ocrClient := ocr.NewClient(cfg)
	searchClient := scraper.NewSearchClient(cfg)
	resolver := scraper.NewResolver(cfg, searchClient)
	analysisSvc := analysis.NewService(cfg, aiSvc)
	routineSvc := routine.NewService(cfg, aiSvc)
	chatSvc := chat.NewService(cfg, aiSvc)

	// 全局中間件：設置超時與健康檢查所需的依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		if cacheManager != nil {
			c.Set("cache_manager", cacheManager)
		}

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := skincareHandler.NewHandler(cfg, ocrClient, resolver, analysisSvc, routineSvc, chatSvc, reportStore)

		skincareGroup := api.Group("/skincare")
		{
			// 成分表照片分析
			skincareGroup.POST("/analyze-image", handler.HandleAnalyzeImage)

			// 產品名稱分析
			skincareGroup.POST("/analyze-name", handler.HandleAnalyzeName)

			// 自由文字分析（自動分類）
			skincareGroup.POST("/analyze", handler.HandleAnalyze)

			// 雙產品比較
			skincareGroup.POST("/compare", handler.HandleCompare)

			// 保養流程
			skincareGroup.POST("/routine", handler.HandleRoutine)
			skincareGroup.GET("/routines", handler.HandleListRoutines)

			// 最近一次分析報告
			skincareGroup.GET("/report", handler.HandleGetReport)

			// 報告問答
			skincareGroup.POST("/chat", handler.HandleChat)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Bool("report_store_initialized", reportStore != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
