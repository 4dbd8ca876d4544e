package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"skincare-analyzer/internal/core/ai/cache"
	groq "skincare-analyzer/internal/core/service"
	"skincare-analyzer/internal/infrastructure/config"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Service AI 服務
// 統一入口：快取查詢、呼叫頻率保護，之後才打到 Groq
type Service struct {
	config       *config.Config
	groq         *groq.GroqService
	cacheManager *cache.CacheManager
	mu           sync.Mutex
	lastRequest  time.Time
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, groqSvc *groq.GroqService, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		groq:         groqSvc,
		cacheManager: cacheManager,
	}
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, systemPrompt, userPrompt string, opts groq.ChatOptions) (*Response, error) {
	s.throttle()

	// 統一提示詞格式，確保快取 key 一致
	cacheSystem := normalizePrompt(systemPrompt)
	cacheUser := normalizePrompt(userPrompt)

	// 檢查緩存
	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheSystem, cacheUser); err == nil && val != "" {
			return &Response{Content: val}, nil
		}
	}

	content, err := s.groq.ChatCompletion(ctx, systemPrompt, userPrompt, opts)
	if err != nil {
		return nil, err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheSystem, cacheUser, content)
	}

	return &Response{Content: content}, nil
}

// normalizePrompt 去除多餘空白、tab、換行
func normalizePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	prompt = strings.ReplaceAll(prompt, "\t", " ")
	prompt = strings.ReplaceAll(prompt, "\n", " ")
	return strings.Join(strings.Fields(prompt), " ")
}

// throttle 確保對上游的最小請求間隔
func (s *Service) throttle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	const minInterval = 100 * time.Millisecond
	if elapsed := time.Since(s.lastRequest); elapsed < minInterval {
		time.Sleep(minInterval - elapsed)
	}
	s.lastRequest = time.Now()
}
