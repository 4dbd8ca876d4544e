package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"skincare-analyzer/internal/infrastructure/config"
	"skincare-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OCR.space 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 OCR 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.OCR.BaseURL).
		SetTimeout(cfg.OCR.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// ocrResponse OCR.space 回應結構
type ocrResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool        `json:"IsErroredOnProcessing"`
	ErrorMessage          interface{} `json:"ErrorMessage"`
}

// RecognizeText 將圖片送往 OCR 並回傳辨識出的完整文字
// 金鑰未設定時立即失敗，不做靜默降級
func (c *Client) RecognizeText(ctx context.Context, imageData []byte) (string, error) {
	if c.config.OCR.APIKey == "" {
		return "", common.ErrOCRKeyMissing
	}

	processed := PreprocessImage(imageData)
	encoded := base64.StdEncoding.EncodeToString(processed)

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"base64Image":       fmt.Sprintf("data:image/jpeg;base64,%s", encoded),
			"language":          "eng",
			"OCREngine":         "2",
			"scale":             "true",
			"detectOrientation": "true",
		}).
		SetHeader("apikey", c.config.OCR.APIKey).
		Post("")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OCR service: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("OCR 服務回應異常",
			zap.Int("status", resp.StatusCode()),
		)
		return "", common.ErrOCRFailed
	}

	var result ocrResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OCR response: %w", err)
	}

	if result.IsErroredOnProcessing {
		common.LogError("OCR 處理失敗",
			zap.Any("error_message", result.ErrorMessage),
		)
		return "", common.ErrOCRFailed
	}

	if len(result.ParsedResults) == 0 {
		return "", common.ErrOCRFailed
	}

	return result.ParsedResults[0].ParsedText, nil
}

// Extract 一次完成辨識與成分擷取
// 辨識成功但擷取不到任何成分時回傳 ErrNoIngredientsFound
func (c *Client) Extract(ctx context.Context, imageData []byte) ([]string, error) {
	rawText, err := c.RecognizeText(ctx, imageData)
	if err != nil {
		return nil, err
	}

	ingredients := ExtractIngredients(rawText)
	if len(ingredients) == 0 {
		return nil, common.ErrNoIngredientsFound
	}
	return ingredients, nil
}
