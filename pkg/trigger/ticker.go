package trigger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

var _ PeriodicTrigger = (*Ticker)(nil)

// Ticker is a PeriodicTrigger backed by a goroutine and a time.Ticker.
// Expiries that arrive while the callback is still running are coalesced.
type Ticker struct {
	width Width

	mu         sync.Mutex
	cfg        Config
	configured bool
	callback   func()
	stop       chan struct{}
	done       chan struct{}

	expired atomic.Uint64
}

// NewTicker returns a disabled, unconfigured trigger with a counter of width w.
func NewTicker(w Width) *Ticker {
	return &Ticker{width: w}
}

// Width returns the counter width.
func (t *Ticker) Width() Width {
	return t.width
}

// Configure disables the trigger and applies cfg.
func (t *Ticker) Configure(cfg Config) error {
	if err := cfg.Validate(t.width); err != nil {
		return err
	}

	t.Disable()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cfg = cfg
	t.configured = true
	return nil
}

// OnExpire registers the callback, replacing any previous one. A change takes
// effect on the next Enable.
func (t *Ticker) OnExpire(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = fn
}

// Enable starts the trigger and waits until it is running.
func (t *Ticker) Enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.configured {
		return ErrNotConfigured
	}
	if t.callback == nil {
		return errors.Wrapf(ErrNoCallback, "%d-bit trigger", t.width)
	}
	if t.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	ready := make(chan struct{})
	go t.run(t.cfg.Interval(t.width), t.callback, stop, ready, done)
	<-ready

	t.stop = stop
	t.done = done
	return nil
}

// Disable stops the trigger and waits for an in-flight callback to finish.
func (t *Ticker) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop = nil
	t.done = nil
}

// Enabled reports whether the trigger is running.
func (t *Ticker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Expired returns how many times the callback has completed.
func (t *Ticker) Expired() uint64 {
	return t.expired.Load()
}

func (t *Ticker) run(interval time.Duration, fn func(), stop, ready, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	close(ready)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// a pending expiry must not run once disable was requested
			select {
			case <-stop:
				return
			default:
			}
			fn()
			t.expired.Add(1)
		}
	}
}
