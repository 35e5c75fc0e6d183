package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// ImageSubmitter уменьшает фото документов перед отправкой.
//
// PDF и прочие файлы передаются без изменений. Если фото не удалось
// перекодировать, отправляется оригинал.
type ImageSubmitter struct {
	next     flow.DocumentSubmitter
	maxWidth int
	quality  int
}

// NewImageSubmitter оборачивает next.
func NewImageSubmitter(next flow.DocumentSubmitter, cfg config.ImageProcConfig) *ImageSubmitter {
	return &ImageSubmitter{next: next, maxWidth: cfg.MaxWidth, quality: cfg.Quality}
}

func (s *ImageSubmitter) SubmitDocument(ctx context.Context, file flow.DocumentFile) error {
	if utils.IsImage(file.Data) {
		resized, err := utils.ResizeImage(file.Data, s.maxWidth, s.quality)
		if err != nil {
			utils.Warn("image resize failed, sending original", "file", file.FileName, "error", err)
		} else {
			utils.Debug("image resized", "file", file.FileName,
				"before_bytes", len(file.Data), "after_bytes", len(resized))
			file.Data = resized
			file.ContentType = "image/jpeg"
			file.FileName = strings.TrimSuffix(file.FileName, filepath.Ext(file.FileName)) + ".jpg"
		}
	}
	return s.next.SubmitDocument(ctx, file)
}
