package scraper

import (
	"bytes"
	"context"
	"net/http"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Resolver 以產品名稱找出成分表
// 搜尋候選頁面並逐一套用擷取策略，第一個成功的頁面勝出。
// 找不到不是錯誤：回傳 (nil, "")，由呼叫端決定後續流程
type Resolver struct {
	config  *config.Config
	search  *SearchClient
	fetcher *resty.Client
}

// NewResolver 創建成分解析器
func NewResolver(cfg *config.Config, search *SearchClient) *Resolver {
	fetcher := resty.New().
		SetTimeout(cfg.Fetch.Timeout).
		SetHeader("User-Agent", cfg.Fetch.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Resolver{
		config:  cfg,
		search:  search,
		fetcher: fetcher,
	}
}

// Resolve 回傳成分清單與來源頁面網址
// 搜尋失敗（金鑰缺失除外）與頁面抓取失敗都只記 log，不讓單一候選頁
// 毀掉整個流程
func (r *Resolver) Resolve(ctx context.Context, productName string) ([]string, string, error) {
	results, err := r.search.Search(ctx, productName)
	if err != nil {
		if err == common.ErrSearchKeyMissing {
			return nil, "", err
		}
		common.LogWarn("搜尋失敗",
			zap.String("product", productName),
			zap.Error(err),
		)
		return nil, "", nil
	}

	for _, result := range results {
		ingredients := r.tryPage(ctx, result.Link)
		if len(ingredients) > 0 {
			common.LogInfo("成分頁面解析成功",
				zap.String("url", result.Link),
				zap.Int("count", len(ingredients)),
			)
			return ingredients, result.Link, nil
		}
	}

	common.LogInfo("所有候選頁面都無法取得成分",
		zap.String("product", productName),
		zap.Int("candidates", len(results)),
	)
	return nil, "", nil
}

// tryPage 抓取單一頁面並套用擷取策略
func (r *Resolver) tryPage(ctx context.Context, url string) []string {
	resp, err := r.fetcher.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		common.LogDebug("頁面抓取失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogDebug("頁面回應異常",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode()),
		)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		common.LogDebug("頁面解析失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil
	}

	text := ExtractIngredientText(doc)
	if text == "" {
		return nil
	}
	return SplitIngredients(text)
}
