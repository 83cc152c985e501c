package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"fygallery/internal/catalog"
)

const maxImageBytes = 64 << 20

var (
	// ErrForbidden is returned when a remote image refuses access.
	ErrForbidden = errors.New("image access denied")
	// ErrTooLarge is returned when a remote body exceeds the size limit.
	ErrTooLarge = errors.New("image too large")
)

// ImageInfo holds metadata about an image.
type ImageInfo struct {
	Width    int
	Height   int
	Size     int64
	Format   string
	EXIFData map[string]string
}

// ImageService resolves image locations (files or http(s) URLs) to pixels.
type ImageService struct {
	Client      *http.Client
	Placeholder string // Location shown when an image cannot be loaded
	MaxBytes    int64  // Remote body limit, 64 MiB when zero
	Logger      *slog.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(placeholder string, logger *slog.Logger) *ImageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{
		Client:      &http.Client{Timeout: 15 * time.Second},
		Placeholder: placeholder,
		Logger:      logger,
	}
}

// Fetch returns the raw bytes behind location.
func (is *ImageService) Fetch(ctx context.Context, location string) ([]byte, error) {
	if !catalog.IsRemote(location) {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", location, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("bad image url %s: %w", location, err)
	}
	resp, err := is.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image %s: %w", location, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s (%s)", ErrForbidden, location, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("failed to fetch image %s: %s", location, resp.Status)
	}
	limit := is.MaxBytes
	if limit <= 0 {
		limit = maxImageBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", location, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, location, limit)
	}
	return data, nil
}

// Open fetches and decodes the image at location.
func (is *ImageService) Open(ctx context.Context, location string) (image.Image, error) {
	data, err := is.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", location, err)
	}
	return img, nil
}

// OpenWithFallback is Open, substituting the placeholder on failure. It
// returns the location actually shown. The failure is only logged.
func (is *ImageService) OpenWithFallback(ctx context.Context, location string) (image.Image, string, error) {
	img, err := is.Open(ctx, location)
	if err == nil {
		return img, location, nil
	}
	is.Logger.Debug("image unavailable, using placeholder", "location", location, "err", err)
	if is.Placeholder == "" || is.Placeholder == location {
		return nil, "", err
	}
	img, perr := is.Open(ctx, is.Placeholder)
	if perr != nil {
		is.Logger.Debug("placeholder unavailable", "location", is.Placeholder, "err", perr)
		return nil, "", err
	}
	return img, is.Placeholder, nil
}

// GetEXIF extracts a few common EXIF fields from an image.
func (is *ImageService) GetEXIF(r io.Reader) map[string]string {
	x, err := exif.Decode(r)
	if err != nil {
		return nil // Not all images have EXIF; not an error for non-JPEGs
	}
	result := make(map[string]string)
	for _, field := range []string{
		"DateTime", "Model", "Make", "ExposureTime", "FNumber", "ISOSpeedRatings", "FocalLength",
	} {
		tag, err := x.Get(exif.FieldName(field))
		if err == nil && tag != nil {
			result[field] = tag.String()
		}
	}
	return result
}

// GetImageInfo returns dimensions, byte size, format and EXIF data without
// decoding the full image.
func (is *ImageService) GetImageInfo(ctx context.Context, location string) (*ImageInfo, error) {
	data, err := is.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image config %s: %w", location, err)
	}
	return &ImageInfo{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     int64(len(data)),
		Format:   format,
		EXIFData: is.GetEXIF(bytes.NewReader(data)),
	}, nil
}
