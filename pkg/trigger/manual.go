package trigger

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var _ PeriodicTrigger = (*Manual)(nil)

// Manual is a PeriodicTrigger whose expiries are produced by calling Fire.
// It is used for simulations and tests that need exact control over time.
type Manual struct {
	width Width

	mu         sync.Mutex
	cfg        Config
	configured bool
	callback   func()

	enabled  atomic.Bool
	busy     atomic.Bool
	fired    atomic.Uint64
	overruns atomic.Uint64
}

// NewManual returns a disabled, unconfigured manual trigger of width w.
func NewManual(w Width) *Manual {
	return &Manual{width: w}
}

// Width returns the counter width.
func (m *Manual) Width() Width {
	return m.width
}

// Config returns the applied configuration.
func (m *Manual) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Configure disables the trigger and applies cfg.
func (m *Manual) Configure(cfg Config) error {
	if err := cfg.Validate(m.width); err != nil {
		return err
	}

	m.Disable()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	m.configured = true
	return nil
}

// OnExpire registers the callback, replacing any previous one.
func (m *Manual) OnExpire(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callback = fn
}

// Enable arms the trigger.
func (m *Manual) Enable() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.configured {
		return ErrNotConfigured
	}
	if m.callback == nil {
		return ErrNoCallback
	}
	m.enabled.Store(true)
	return nil
}

// Disable disarms the trigger and spins until a running callback completes.
func (m *Manual) Disable() {
	m.enabled.Store(false)
	for m.busy.Load() {
		runtime.Gosched()
	}
}

// Enabled reports whether Fire will run the callback.
func (m *Manual) Enabled() bool {
	return m.enabled.Load()
}

// Fire simulates one period expiry. It returns false when the trigger is
// disabled or when the previous callback has not finished yet; the latter is
// counted as an overrun.
func (m *Manual) Fire() bool {
	if !m.enabled.Load() {
		return false
	}
	if !m.busy.CompareAndSwap(false, true) {
		m.overruns.Add(1)
		return false
	}
	defer m.busy.Store(false)

	// disable may have landed between the two checks above
	if !m.enabled.Load() {
		return false
	}

	m.mu.Lock()
	fn := m.callback
	m.mu.Unlock()

	fn()
	m.fired.Add(1)
	return true
}

// FireN calls Fire n times and returns how many expiries ran the callback.
func (m *Manual) FireN(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		if m.Fire() {
			ran++
		}
	}
	return ran
}

// Fired returns how many callbacks have completed.
func (m *Manual) Fired() uint64 {
	return m.fired.Load()
}

// Overruns returns how many expiries were dropped because the callback was busy.
func (m *Manual) Overruns() uint64 {
	return m.overruns.Load()
}
