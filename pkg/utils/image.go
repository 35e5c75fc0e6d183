package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Регистрируем PNG декодер
	"net/http"

	"github.com/nfnt/resize"
)

// IsImage определяет по содержимому, что файл — JPEG или PNG.
func IsImage(data []byte) bool {
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png":
		return true
	}
	return false
}

// ResizeImage уменьшает фото документа до maxWidth, сохраняя пропорции.
//
// Результат всегда JPEG с указанным quality.
// Если maxWidth <= 0 или изображение уже уже — только перекодирование.
func ResizeImage(data []byte, maxWidth int, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	bounds := img.Bounds()
	if maxWidth > 0 && bounds.Dx() > maxWidth {
		newHeight := uint(float64(maxWidth) * float64(bounds.Dy()) / float64(bounds.Dx()))
		img = resize.Resize(uint(maxWidth), newHeight, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
