package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SearchClient Google Custom Search 客戶端
type SearchClient struct {
	config *config.Config
	client *resty.Client
}

// SearchResult 單筆搜尋結果
type SearchResult struct {
	Title string
	Link  string
}

// 品牌官網偏好表，命中時優先搜尋官網網域
var brandDomains = map[string]string{
	"cerave":       "cerave.com",
	"the ordinary": "theordinary.com",
	"la roche":     "laroche-posay.us",
	"cetaphil":     "cetaphil.com",
	"neutrogena":   "neutrogena.com",
	"paula's":      "paulaschoice.com",
}

// NewSearchClient 創建搜尋客戶端
func NewSearchClient(cfg *config.Config) *SearchClient {
	client := resty.New().
		SetBaseURL(cfg.Search.BaseURL).
		SetTimeout(cfg.Search.Timeout)

	return &SearchClient{
		config: cfg,
		client: client,
	}
}

// searchResponse Custom Search API 回應結構
type searchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

// Search 以產品名稱搜尋成分頁面
// 若產品名稱命中品牌偏好表，先以 site: 限定官網搜尋；沒有結果時退回
// 無限定搜尋。零結果不是錯誤，回傳空切片
func (c *SearchClient) Search(ctx context.Context, productName string) ([]SearchResult, error) {
	if c.config.Search.APIKey == "" || c.config.Search.CX == "" {
		return nil, common.ErrSearchKeyMissing
	}

	query := fmt.Sprintf("%s ingredients", productName)

	if domain := matchBrandDomain(productName); domain != "" {
		biased, err := c.doSearch(ctx, fmt.Sprintf("site:%s %s", domain, query))
		if err != nil {
			return nil, err
		}
		if len(biased) > 0 {
			return biased, nil
		}
		common.LogDebug("官網限定搜尋無結果，退回一般搜尋",
			zap.String("domain", domain),
		)
	}

	return c.doSearch(ctx, query)
}

func (c *SearchClient) doSearch(ctx context.Context, query string) ([]SearchResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": c.config.Search.APIKey,
			"cx":  c.config.Search.CX,
			"q":   query,
			"num": strconv.Itoa(c.config.Search.ResultCount),
		}).
		Get("")

	if err != nil {
		return nil, fmt.Errorf("failed to send search request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search API returned error: %s", resp.String())
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	results := make([]SearchResult, 0, len(result.Items))
	for _, item := range result.Items {
		results = append(results, SearchResult{
			Title: item.Title,
			Link:  item.Link,
		})
	}
	return results, nil
}

// matchBrandDomain 以產品名稱比對品牌偏好表
func matchBrandDomain(productName string) string {
	lower := strings.ToLower(productName)
	for brand, domain := range brandDomains {
		if strings.Contains(lower, brand) {
			return domain
		}
	}
	return ""
}
