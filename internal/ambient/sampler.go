// Package ambient derives the background tint from the displayed image.
package ambient

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"

	"github.com/nfnt/resize"
)

const (
	// DefaultSampleWidth is the width images are shrunk to before averaging.
	DefaultSampleWidth = 40
	// DefaultAlphaThreshold discards pixels with a lower 8-bit alpha.
	DefaultAlphaThreshold = 150
)

// DefaultColor is the tint used before any image was sampled.
var DefaultColor = color.RGBA{R: 0x0b, G: 0x0b, B: 0x14, A: 0xff}

// ErrNoOpaquePixels is returned when every pixel falls below the alpha threshold.
var ErrNoOpaquePixels = errors.New("no opaque pixels to sample")

// Opener loads the image behind a location.
type Opener interface {
	Open(ctx context.Context, location string) (image.Image, error)
}

// Average shrinks img to width pixels wide, keeping the aspect ratio, and
// returns the mean color of all pixels whose alpha is at least alphaThreshold.
func Average(img image.Image, width int, alphaThreshold uint8) (color.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return color.RGBA{}, ErrNoOpaquePixels
	}
	if width <= 0 {
		width = DefaultSampleWidth
	}
	height := int(math.Round(float64(b.Dy()) / float64(b.Dx()) * float64(width)))
	if height < 1 {
		height = 1
	}

	small := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	sb := small.Bounds()

	var r, g, bl, count uint64
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			px := color.NRGBAModel.Convert(small.At(x, y)).(color.NRGBA)
			if px.A < alphaThreshold {
				continue
			}
			r += uint64(px.R)
			g += uint64(px.G)
			bl += uint64(px.B)
			count++
		}
	}
	if count == 0 {
		return color.RGBA{}, ErrNoOpaquePixels
	}
	return color.RGBA{
		R: roundDiv(r, count),
		G: roundDiv(g, count),
		B: roundDiv(bl, count),
		A: 0xff,
	}, nil
}

func roundDiv(sum, n uint64) uint8 {
	return uint8((sum + n/2) / n)
}

// Sampler keeps the ambient color of the most recently requested image.
// Results of superseded requests are discarded when they arrive.
type Sampler struct {
	opener         Opener
	width          int
	alphaThreshold uint8
	logger         *slog.Logger

	mu        sync.Mutex
	notifyMu  sync.Mutex
	color     color.RGBA
	latest    uint64
	listeners []func(color.RGBA)
	inflight  sync.WaitGroup
}

// NewSampler creates a Sampler. A non-positive width selects the default; the
// alpha threshold is used as given, so 0 keeps every pixel.
func NewSampler(opener Opener, width int, alphaThreshold uint8, logger *slog.Logger) *Sampler {
	if width <= 0 {
		width = DefaultSampleWidth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		opener:         opener,
		width:          width,
		alphaThreshold: alphaThreshold,
		logger:         logger,
		color:          DefaultColor,
	}
}

// Color returns the current ambient color.
func (s *Sampler) Color() color.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// OnChange registers fn to be called with every newly applied color.
func (s *Sampler) OnChange(fn func(color.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Sample loads location and computes its average color synchronously.
func (s *Sampler) Sample(ctx context.Context, location string) (color.RGBA, error) {
	img, err := s.opener.Open(ctx, location)
	if err != nil {
		return color.RGBA{}, err
	}
	c, err := Average(img, s.width, s.alphaThreshold)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("sampling %s: %w", location, err)
	}
	return c, nil
}

// Request samples location in the background and returns the request's
// generation. Failures keep the previous color.
func (s *Sampler) Request(location string) uint64 {
	s.mu.Lock()
	s.latest++
	gen := s.latest
	s.mu.Unlock()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		c, err := s.Sample(context.Background(), location)
		s.apply(gen, location, c, err)
	}()
	return gen
}

// Wait blocks until every in-flight request has finished.
func (s *Sampler) Wait() {
	s.inflight.Wait()
}

func (s *Sampler) apply(gen uint64, location string, c color.RGBA, err error) {
	s.mu.Lock()
	if gen != s.latest {
		s.mu.Unlock()
		s.logger.Debug("ambient: discarding stale sample", "location", location, "generation", gen)
		return
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("ambient: sampling failed, keeping previous color", "location", location, "err", err)
		return
	}
	s.color = c
	listeners := append([]func(color.RGBA){}, s.listeners...)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
