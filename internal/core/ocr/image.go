package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"skincare-analyzer/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // 支援 WebP
)

const (
	maxDimension = 1600
	jpegQuality  = 90
)

// PreprocessImage 提升成分表照片的 OCR 辨識率
// 流程：縮圖至 1600x1600 以內、灰階、對比增強、銳化，最後輸出 JPEG。
// 任一步驟失敗即回傳原始位元組，預處理只能加分不能擋路
func PreprocessImage(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		common.LogWarn("圖片解碼失敗，改用原始位元組", zap.Error(err))
		return data
	}

	img = downscale(img)
	gray := toGrayscale(img)
	enhanced := adjustContrast(gray, 2.0)
	sharpened := sharpen(enhanced)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sharpened, &jpeg.Options{Quality: jpegQuality}); err != nil {
		common.LogWarn("圖片編碼失敗，改用原始位元組", zap.Error(err))
		return data
	}
	return buf.Bytes()
}

// downscale 等比縮小至 maxDimension 以內，小圖不放大
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}

	scale := float64(maxDimension) / float64(w)
	if h > w {
		scale = float64(maxDimension) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// toGrayscale 轉為灰階
func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// adjustContrast 以中灰為軸放大對比
func adjustContrast(img *image.Gray, factor float64) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(img.GrayAt(x, y).Y)
			v = (v-128)*factor + 128
			out.SetGray(x, y, color.Gray{Y: clampUint8(v)})
		}
	}
	return out
}

// sharpen 以 3x3 銳化卷積核強化邊緣
func sharpen(img *image.Gray) *image.Gray {
	kernel := [3][3]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	}

	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					sx, sy := x+kx, y+ky
					// 邊緣像素取最近鄰
					if sx < bounds.Min.X {
						sx = bounds.Min.X
					}
					if sx >= bounds.Max.X {
						sx = bounds.Max.X - 1
					}
					if sy < bounds.Min.Y {
						sy = bounds.Min.Y
					}
					if sy >= bounds.Max.Y {
						sy = bounds.Max.Y - 1
					}
					sum += float64(img.GrayAt(sx, sy).Y) * kernel[ky+1][kx+1]
				}
			}
			out.SetGray(x, y, color.Gray{Y: clampUint8(sum)})
		}
	}
	return out
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
