package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/go-mpv"
)

// MPVBackend plays audio through libmpv with video output disabled.
type MPVBackend struct {
	mu sync.Mutex
	m  *mpv.Mpv
}

// NewMPVBackend creates and initializes an audio-only, looping mpv instance.
func NewMPVBackend(logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := mpv.New()

	must := func(err error) {
		if err != nil {
			logger.Debug("mpv option warning", "err", err)
		}
	}
	must(m.SetOptionString("vid", "no"))
	must(m.SetOptionString("video", "no"))
	must(m.SetOptionString("idle", "yes"))
	must(m.SetOptionString("pause", "yes"))
	must(m.SetOptionString("loop-file", "inf"))
	must(m.SetOptionString("terminal", "no"))

	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("mpv init: %w", err)
	}
	return &MPVBackend{m: m}, nil
}

// Load queues location, paused.
func (b *MPVBackend) Load(location string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m.Command([]string{"loadfile", location, "replace"})
}

// Play resumes playback.
func (b *MPVBackend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m.SetPropertyString("pause", "no")
}

// Pause pauses playback.
func (b *MPVBackend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m.SetPropertyString("pause", "yes")
}

// Rewind seeks back to the start.
func (b *MPVBackend) Rewind() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m.Command([]string{"seek", "0", "absolute"})
}

// Close destroys the mpv instance.
func (b *MPVBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m.TerminateDestroy()
}
