package ui

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/nfnt/resize"

	"fygallery/internal/catalog"
	"fygallery/internal/service"
)

const (
	// ThumbnailWidth bounds the decoded thumbnail width.
	ThumbnailWidth = 280
	// ThumbnailHeight bounds the decoded thumbnail height.
	ThumbnailHeight = 560
)

// ThumbnailManager handles generation and caching of image thumbnails.
type ThumbnailManager struct {
	cache      map[string]fyne.Resource
	cacheMutex sync.RWMutex
	images     *service.ImageService
	logger     *slog.Logger
}

// NewThumbnailManager creates a new thumbnail manager.
func NewThumbnailManager(images *service.ImageService, logger *slog.Logger) *ThumbnailManager {
	return &ThumbnailManager{
		cache:  make(map[string]fyne.Resource),
		images: images,
		logger: logger,
	}
}

// imageToBytes is a helper to convert image.Image to []byte for Fyne resources.
func imageToBytes(img image.Image) []byte {
	buf := new(bytes.Buffer)
	err := png.Encode(buf, img)
	if err != nil {
		return nil
	}
	return buf.Bytes()
}

// GetThumbnail returns the cached thumbnail for rec, or a placeholder icon
// while the thumbnail is generated in the background. onComplete is called
// on the UI thread once it is ready.
func (tm *ThumbnailManager) GetThumbnail(rec catalog.ImageRecord, onComplete func(fyne.Resource)) fyne.Resource {
	tm.cacheMutex.RLock()
	if res, ok := tm.cache[rec.Location]; ok {
		tm.cacheMutex.RUnlock()
		return res
	}
	tm.cacheMutex.RUnlock()

	go func() {
		img, _, err := tm.images.OpenWithFallback(context.Background(), rec.Location)
		if err != nil {
			tm.logger.Debug("thumbnail unavailable", "id", rec.ID, "err", err)
			return
		}

		thumbImg := resize.Thumbnail(ThumbnailWidth, ThumbnailHeight, img, resize.Lanczos3)
		thumbBytes := imageToBytes(thumbImg)
		if thumbBytes == nil {
			return
		}
		imgResource := fyne.NewStaticResource(rec.ID+".png", thumbBytes)

		tm.cacheMutex.Lock()
		tm.cache[rec.Location] = imgResource
		tm.cacheMutex.Unlock()

		fyne.Do(func() {
			onComplete(imgResource)
		})
	}()

	return theme.FileImageIcon()
}
