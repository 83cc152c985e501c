// Package audio drives the single ambient audio loop.
package audio

import (
	"log/slog"
	"sync"
)

// Backend is the playback primitive.
type Backend interface {
	Load(location string) error
	Play() error
	Pause() error
	Rewind() error
	Close()
}

// BackendFunc creates a Backend on first use.
type BackendFunc func(logger *slog.Logger) (Backend, error)

// Player owns the ambient audio resource. It is changed only through
// SetEnabled; every playback failure is logged and swallowed.
type Player struct {
	mu         sync.Mutex
	location   string
	newBackend BackendFunc
	backend    Backend
	loaded     bool
	enabled    bool
	logger     *slog.Logger
}

// NewPlayer creates a Player for location. The backend is created lazily on
// the first enable, so nothing is opened while audio stays off.
func NewPlayer(location string, newBackend BackendFunc, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{location: location, newBackend: newBackend, logger: logger}
}

// Enabled reports the last requested state.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// SetEnabled starts the loop when true and pauses and rewinds it when false.
// A failed start is not retried until the next call with true.
func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if enabled == p.enabled {
		return
	}
	p.enabled = enabled
	if enabled {
		p.startLocked()
		return
	}
	if p.backend == nil || !p.loaded {
		return
	}
	if err := p.backend.Pause(); err != nil {
		p.logger.Debug("audio: pause failed", "err", err)
	}
	if err := p.backend.Rewind(); err != nil {
		p.logger.Debug("audio: rewind failed", "err", err)
	}
}

func (p *Player) startLocked() {
	if p.location == "" {
		p.logger.Debug("audio: no ambient track configured")
		return
	}
	if p.backend == nil {
		if p.newBackend == nil {
			p.logger.Debug("audio: no playback backend available")
			return
		}
		b, err := p.newBackend(p.logger)
		if err != nil {
			p.logger.Debug("audio: backend unavailable", "err", err)
			return
		}
		p.backend = b
	}
	if !p.loaded {
		if err := p.backend.Load(p.location); err != nil {
			p.logger.Debug("audio: load failed", "location", p.location, "err", err)
			return
		}
		p.loaded = true
	}
	if err := p.backend.Play(); err != nil {
		p.logger.Debug("audio: playback did not start", "err", err)
	}
}

// Close releases the backend.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend != nil {
		p.backend.Close()
		p.backend = nil
	}
	p.loaded = false
	p.enabled = false
}
