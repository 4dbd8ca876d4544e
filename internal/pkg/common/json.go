package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict 解析 JSON 字符串到結構體（禁止未知欄位）
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var (
	unquotedKeyPattern   = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	singleQuotedPattern  = regexp.MustCompile(`:\s*'([^']*)'`)
	bareValuePattern     = regexp.MustCompile(`(\w)\s*:\s*([A-Za-z][A-Za-z _-]*)\s*([,}\]])`)
)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// StripCodeFence 去掉 ```json ... ``` 包裹
func StripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// ExtractJSONObject 擷取第一個 { 到最後一個 }，防禦模型在 JSON 前後
// 附帶的說明文字
func ExtractJSONObject(raw string) string {
	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start != -1 && end != -1 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// RepairJSON 套用固定順序的文字修復
// 依序處理：結尾多餘逗號、被跳脫的引號、單引號字串值、未加引號的
// 純文字值、未加引號的鍵
func RepairJSON(raw string) string {
	raw = trailingCommaPattern.ReplaceAllString(raw, `$1`)
	raw = strings.ReplaceAll(raw, `\'`, `'`)
	raw = strings.ReplaceAll(raw, `\\"`, `"`)
	raw = singleQuotedPattern.ReplaceAllString(raw, `: "$1"`)
	raw = bareValuePattern.ReplaceAllString(raw, `$1: "$2"$3`)
	raw = QuoteJSONKeys(raw)
	return raw
}

// ParseModelJSON 解析生成式模型輸出的 JSON
// 先直接解析；失敗時套用修復管線並重新解析擷取後的子字串。修復仍失敗
// 即回傳錯誤，由呼叫端決定降級行為，不做部分採用
func ParseModelJSON(content string, v interface{}) error {
	content = StripCodeFence(content)
	candidate := ExtractJSONObject(content)

	if err := ParseJSON(candidate, v); err == nil {
		return nil
	}

	repaired := ExtractJSONObject(RepairJSON(candidate))
	if err := ParseJSON(repaired, v); err != nil {
		return fmt.Errorf("failed to parse model output after repair: %w", err)
	}
	return nil
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
