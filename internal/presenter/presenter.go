// Package presenter connects the navigation controller to the ambient color
// sampler and the audio player, and exposes the intents the window dispatches.
package presenter

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"fygallery/internal/catalog"
	"fygallery/internal/playlist"
	"fygallery/internal/slideshow"
)

// Key names the lightbox handles. The values match fyne.KeyName.
type Key string

const (
	KeyEscape Key = "Escape"
	KeyLeft   Key = "Left"
	KeyRight  Key = "Right"
)

// ColorSampler is the part of ambient.Sampler the presenter drives.
type ColorSampler interface {
	Request(location string) uint64
	Color() color.RGBA
	OnChange(fn func(color.RGBA))
}

// AudioSwitch is the part of audio.Player the presenter drives.
type AudioSwitch interface {
	SetEnabled(enabled bool)
	Close()
}

// Resolver turns a record location into pixels, substituting a placeholder
// when the image cannot be loaded.
type Resolver interface {
	OpenWithFallback(ctx context.Context, location string) (image.Image, string, error)
}

// Presenter owns the edges between the gallery components:
// dataset change rebuilds the playlist and resets the rotation, a change
// of the displayed record requests a new ambient color, and a change of the
// audio flag switches the player.
type Presenter struct {
	ctrl     *slideshow.Controller
	sampler  ColorSampler
	audio    AudioSwitch
	resolver Resolver
	logger   *slog.Logger

	mu           sync.Mutex
	playlist     playlist.Playlist
	displayed    catalog.ImageRecord
	hasDisplayed bool
	audioOn      bool
	closed       bool
}

// New wires the components together. Any of sampler, audio and resolver may
// be nil, which disables that edge.
func New(ctrl *slideshow.Controller, sampler ColorSampler, audio AudioSwitch, resolver Resolver, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Presenter{
		ctrl:     ctrl,
		sampler:  sampler,
		audio:    audio,
		resolver: resolver,
		logger:   logger,
	}
	ctrl.Subscribe(p.onState)
	p.onState(ctrl.Snapshot())
	return p
}

// SetDataset rebuilds the rotation and the section groups from records.
func (p *Presenter) SetDataset(records []catalog.ImageRecord) {
	pl := playlist.New(records)
	p.mu.Lock()
	p.playlist = pl
	p.mu.Unlock()
	p.logger.Debug("presenter: dataset loaded", "records", len(records), "rotation", pl.Len())
	p.ctrl.SetRotation(pl.Rotation)
}

// Sections returns the grid groups of the current dataset.
func (p *Presenter) Sections() []playlist.SectionGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playlist.Sections
}

// Rotation returns the hero rotation of the current dataset.
func (p *Presenter) Rotation() []catalog.ImageRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playlist.Rotation
}

// Snapshot returns the current navigation state.
func (p *Presenter) Snapshot() slideshow.Snapshot {
	return p.ctrl.Snapshot()
}

// OnState registers fn for every navigation state change.
func (p *Presenter) OnState(fn func(slideshow.Snapshot)) {
	p.ctrl.Subscribe(fn)
}

// OnColor registers fn for every new ambient color.
func (p *Presenter) OnColor(fn func(color.RGBA)) {
	if p.sampler != nil {
		p.sampler.OnChange(fn)
	}
}

// AmbientColor returns the current tint.
func (p *Presenter) AmbientColor() color.RGBA {
	if p.sampler == nil {
		return color.RGBA{}
	}
	return p.sampler.Color()
}

// Next is the user pressing the next button.
func (p *Presenter) Next() {
	p.ctrl.MarkUserInteracted()
	p.ctrl.Advance()
}

// Prev is the user pressing the previous button.
func (p *Presenter) Prev() {
	p.ctrl.MarkUserInteracted()
	p.ctrl.Retreat()
}

// Select is the user picking a thumbnail. An unknown id only stops autoplay.
func (p *Presenter) Select(id string) bool {
	p.ctrl.MarkUserInteracted()
	return p.ctrl.JumpTo(id)
}

// TogglePlay flips autoplay. It does not count as an interaction, otherwise
// pausing would disable autoplay and the toggle would turn it back on.
func (p *Presenter) TogglePlay() {
	p.ctrl.TogglePlay()
}

// ToggleAudio flips ambient audio.
func (p *Presenter) ToggleAudio() {
	p.ctrl.ToggleAudio()
}

// OpenLightbox shows the overlay on the current record and stops autoplay.
func (p *Presenter) OpenLightbox() {
	p.ctrl.MarkUserInteracted()
	p.ctrl.OpenLightbox()
}

// CloseLightbox hides the overlay. The position is kept.
func (p *Presenter) CloseLightbox() {
	p.ctrl.CloseLightbox()
}

// HandleLightboxKey applies the overlay keyboard contract and reports whether
// the key was consumed. Keys are ignored while the overlay is closed.
func (p *Presenter) HandleLightboxKey(key Key) bool {
	if !p.ctrl.State().IsLightboxOpen {
		return false
	}
	switch key {
	case KeyEscape:
		p.CloseLightbox()
	case KeyLeft:
		p.Prev()
	case KeyRight:
		p.Next()
	default:
		return false
	}
	return true
}

// Open loads the pixels for rec, falling back to the placeholder.
func (p *Presenter) Open(ctx context.Context, rec catalog.ImageRecord) (image.Image, error) {
	if p.resolver == nil {
		return nil, nil
	}
	img, _, err := p.resolver.OpenWithFallback(ctx, rec.Location)
	return img, err
}

// Close stops the autoplay ticker and releases the audio player.
func (p *Presenter) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.ctrl.Close()
	if p.audio != nil {
		p.audio.Close()
	}
}

func (p *Presenter) onState(s slideshow.Snapshot) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	itemChanged := s.HasCurrent && (!p.hasDisplayed || s.Current != p.displayed)
	p.displayed, p.hasDisplayed = s.Current, s.HasCurrent
	audioChanged := s.IsAudioEnabled != p.audioOn
	p.audioOn = s.IsAudioEnabled
	p.mu.Unlock()

	if itemChanged && p.sampler != nil {
		p.sampler.Request(s.Current.Location)
	}
	if audioChanged && p.audio != nil {
		p.audio.SetEnabled(s.IsAudioEnabled)
	}
}
