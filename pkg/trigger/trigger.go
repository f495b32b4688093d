// Package trigger provides periodic activations for the sampling and display
// tasks. A trigger owns a counter of fixed width, is configured while
// disabled, and invokes exactly one registered callback on every period
// expiry until it is disabled again.
package trigger

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotConfigured = errors.New("trigger not configured")
	ErrNoCallback    = errors.New("trigger has no callback")
	ErrInvalidConfig = errors.New("invalid trigger config")
	ErrPeriodRange   = errors.New("period does not fit counter width")
)

// Width is the counter resolution in bits.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
)

// Max returns the largest period the counter can hold.
func (w Width) Max() uint32 {
	return uint32(1)<<w - 1
}

// Mode selects how the counter generates its period.
type Mode uint8

const (
	// NormalFrequency free-runs and wraps at the counter top; Period is ignored.
	NormalFrequency Mode = iota
	// MatchFrequency wraps when the counter matches Period.
	MatchFrequency
	// NormalPWM wraps at the period register.
	NormalPWM
	// MatchPWM wraps at Period and drives a PWM output.
	MatchPWM
)

// Top returns the counter value at which a counter of width w wraps in mode m.
func (m Mode) Top(w Width, period uint32) uint32 {
	switch m {
	case NormalFrequency:
		return w.Max()
	}
	return period
}

func (m Mode) String() string {
	switch m {
	case NormalFrequency:
		return "NFRQ"
	case MatchFrequency:
		return "MFRQ"
	case NormalPWM:
		return "NPWM"
	case MatchPWM:
		return "MPWM"
	}
	return "unknown"
}

// Config describes one counter: source clock, prescaler and period.
type Config struct {
	ClockHz  uint32
	Prescale uint16
	Period   uint32
	Mode     Mode
}

// Interval returns the time between expiries of a counter of width w.
func (c Config) Interval(w Width) time.Duration {
	if c.ClockHz == 0 {
		return 0
	}
	ticks := uint64(c.Prescale) * (uint64(c.Mode.Top(w, c.Period)) + 1)
	return time.Duration(ticks * uint64(time.Second) / uint64(c.ClockHz))
}

// Frequency returns expiries per second of a counter of width w.
func (c Config) Frequency(w Width) float64 {
	if c.Prescale == 0 {
		return 0
	}
	return float64(c.ClockHz) / float64(c.Prescale) / (float64(c.Mode.Top(w, c.Period)) + 1)
}

// Validate checks c against a counter of width w.
func (c Config) Validate(w Width) error {
	if c.ClockHz == 0 || c.Prescale == 0 {
		return errors.Wrap(ErrInvalidConfig, "clock and prescale must be non-zero")
	}
	if c.Mode > MatchPWM {
		return errors.Wrapf(ErrInvalidConfig, "mode %d", c.Mode)
	}
	if c.Period > w.Max() {
		return errors.Wrapf(ErrPeriodRange, "period %d, %d-bit counter", c.Period, w)
	}
	if c.Interval(w) <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "interval below 1ns at %d Hz", c.ClockHz)
	}
	return nil
}

// PeriodicTrigger fires a callback at a fixed rate.
//
// Configure leaves the trigger disabled. Enable and Disable return only once the
// transition has taken effect: after Disable returns no callback runs. A
// callback always completes before the next expiry is acknowledged, so it never
// overlaps itself. Disable must not be called from inside the callback.
type PeriodicTrigger interface {
	Width() Width
	Configure(cfg Config) error
	OnExpire(fn func())
	Enable() error
	Disable()
}
