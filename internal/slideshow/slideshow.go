// Package slideshow owns the hero navigation state: the current rotation
// position, autoplay, and the lightbox and audio flags.
package slideshow

import (
	"log/slog"
	"sync"
	"time"

	"fygallery/internal/catalog"
)

const (
	// DefaultInterval is the autoplay period.
	DefaultInterval = 5 * time.Second
)

// State is the navigation state. CurrentIndex is always in [0, rotation length),
// or 0 for an empty rotation.
type State struct {
	CurrentIndex   int
	IsAutoPlaying  bool
	IsLightboxOpen bool
	IsAudioEnabled bool
}

// Snapshot is a State plus the record it points at.
type Snapshot struct {
	State
	Length     int
	Current    catalog.ImageRecord
	HasCurrent bool
}

// Controller handles the slideshow navigation. All mutations are serialized
// by mu; listeners run after mu is released, one notification at a time and
// in mutation order. Listeners must not call back into the Controller.
type Controller struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	rotation []catalog.ImageRecord
	state    State
	interval time.Duration

	newTicker  TickerFunc
	ticker     Ticker
	stopTicker chan struct{}
	generation uint64 // Bumped whenever the ticker is cancelled or replaced
	closed     bool

	listeners []func(Snapshot)
	logger    *slog.Logger
}

// NewController creates a Controller over rotation with autoplay running.
// Interval is the time between automatic advances.
func NewController(rotation []catalog.ImageRecord, interval time.Duration, logger *slog.Logger) *Controller {
	return NewControllerWithTicker(rotation, interval, NewTimeTicker, logger)
}

// NewControllerWithTicker is NewController with a custom ticker source.
func NewControllerWithTicker(rotation []catalog.ImageRecord, interval time.Duration, newTicker TickerFunc, logger *slog.Logger) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		rotation:  append([]catalog.ImageRecord(nil), rotation...),
		state:     State{IsAutoPlaying: true},
		interval:  interval,
		newTicker: newTicker,
		logger:    logger,
	}
	c.mu.Lock()
	c.startTickerLocked()
	c.mu.Unlock()
	return c
}

// Subscribe registers fn to be called after every state change.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.listeners = append(c.listeners, fn)
}

// Interval returns the configured autoplay interval.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current state with the record it points at.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Current returns the record at the current position, false if the rotation is empty.
func (c *Controller) Current() (catalog.ImageRecord, bool) {
	s := c.Snapshot()
	return s.Current, s.HasCurrent
}

// Len returns the rotation length.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rotation)
}

// Advance moves to the next position, wrapping around.
func (c *Controller) Advance() {
	c.update(func() bool { return c.advanceLocked() })
}

// Retreat moves to the previous position, wrapping around.
func (c *Controller) Retreat() {
	c.update(func() bool {
		n := len(c.rotation)
		if n == 0 {
			return false
		}
		c.state.CurrentIndex = (c.state.CurrentIndex - 1 + n) % n
		return true
	})
}

// JumpTo moves to the first position holding id. An unknown id leaves the
// position unchanged and returns false.
func (c *Controller) JumpTo(id string) bool {
	found := false
	c.update(func() bool {
		for i, r := range c.rotation {
			if r.ID == id {
				c.state.CurrentIndex = i
				found = true
				return true
			}
		}
		return false
	})
	if !found {
		c.logger.Debug("slideshow: jump to unknown image ignored", "id", id)
	}
	return found
}

// MarkUserInteracted stops autoplay and cancels the pending tick. Only
// TogglePlay turns autoplay back on.
func (c *Controller) MarkUserInteracted() {
	c.update(func() bool {
		if !c.state.IsAutoPlaying {
			return false
		}
		c.state.IsAutoPlaying = false
		c.stopTickerLocked()
		return true
	})
}

// TogglePlay flips autoplay, starting a fresh ticker or stopping the live one.
func (c *Controller) TogglePlay() {
	c.update(func() bool {
		c.state.IsAutoPlaying = !c.state.IsAutoPlaying
		if c.state.IsAutoPlaying {
			c.startTickerLocked()
		} else {
			c.stopTickerLocked()
		}
		return true
	})
}

// ToggleAudio flips the ambient audio flag. It does not affect autoplay.
func (c *Controller) ToggleAudio() {
	c.update(func() bool {
		c.state.IsAudioEnabled = !c.state.IsAudioEnabled
		return true
	})
}

// OpenLightbox shows the fullscreen overlay.
func (c *Controller) OpenLightbox() {
	c.update(func() bool {
		if c.state.IsLightboxOpen {
			return false
		}
		c.state.IsLightboxOpen = true
		return true
	})
}

// CloseLightbox hides the fullscreen overlay.
func (c *Controller) CloseLightbox() {
	c.update(func() bool {
		if !c.state.IsLightboxOpen {
			return false
		}
		c.state.IsLightboxOpen = false
		return true
	})
}

// SetRotation replaces the rotation. The position is kept modulo the new
// length, and a running ticker is recreated when the length changes.
func (c *Controller) SetRotation(rotation []catalog.ImageRecord) {
	c.update(func() bool {
		lengthChanged := len(rotation) != len(c.rotation)
		c.rotation = append([]catalog.ImageRecord(nil), rotation...)
		if n := len(c.rotation); n > 0 {
			c.state.CurrentIndex %= n
		} else {
			c.state.CurrentIndex = 0
		}
		if lengthChanged && c.state.IsAutoPlaying {
			c.startTickerLocked()
		}
		return true
	})
}

// Close cancels the ticker and drops all listeners. It is safe to call twice.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTickerLocked()
	c.listeners = nil
}

// update runs mutate under the lock and notifies listeners if it reports a change.
func (c *Controller) update(mutate func() bool) {
	c.mu.Lock()
	if c.closed || !mutate() {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	listeners := append([]func(Snapshot){}, c.listeners...)
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (c *Controller) advanceLocked() bool {
	n := len(c.rotation)
	if n == 0 {
		return false
	}
	c.state.CurrentIndex = (c.state.CurrentIndex + 1) % n
	return true
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{State: c.state, Length: len(c.rotation)}
	if s.Length > 0 {
		s.Current = c.rotation[c.state.CurrentIndex%s.Length]
		s.HasCurrent = true
	}
	return s
}

// startTickerLocked replaces any live ticker with a new one.
func (c *Controller) startTickerLocked() {
	c.stopTickerLocked()
	c.generation++
	gen := c.generation
	t := c.newTicker(c.interval)
	stop := make(chan struct{})
	c.ticker = t
	c.stopTicker = stop
	go c.run(t, stop, gen)
	c.logger.Debug("slideshow: autoplay ticker started", "interval", c.interval, "generation", gen)
}

func (c *Controller) stopTickerLocked() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stopTicker)
	c.ticker = nil
	c.stopTicker = nil
	c.generation++
	c.logger.Debug("slideshow: autoplay ticker stopped")
}

func (c *Controller) run(t Ticker, stop <-chan struct{}, gen uint64) {
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			select {
			case <-stop:
				return
			default:
			}
			c.tick(gen)
		}
	}
}

// tick advances on behalf of the ticker of generation gen. Ticks from a
// cancelled or replaced ticker are dropped.
func (c *Controller) tick(gen uint64) {
	c.update(func() bool {
		if gen != c.generation || !c.state.IsAutoPlaying {
			return false
		}
		return c.advanceLocked()
	})
}
