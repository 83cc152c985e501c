package slideshow

import "time"

// Ticker is the recurring timer driving autoplay.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (tt timeTicker) C() <-chan time.Time { return tt.t.C }

func (tt timeTicker) Stop() { tt.t.Stop() }
