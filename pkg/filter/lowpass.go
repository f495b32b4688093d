// Package filter implements the single-pole low-pass recurrence used to smooth
// analog samples before they are re-emitted on the analog output.
package filter

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// LegacyOmega is ω for a 100 Hz cutoff at 1 kHz computed with π = 3.14.
// Use it with NewWithOmega when output must match boards flashed with the
// old constant bit for bit.
const LegacyOmega float32 = 100 * 2 * 3.14 / 1000

// ErrUnstable is returned when ω falls outside (0, 2).
var ErrUnstable = errors.New("filter unstable: omega must be in (0, 2)")

// LowPass is a first-order recurrence filter:
//
//	y[n] = (1 - ω)·y[n-1] + ω·x[n-1]
//
// The input term is the previous sample, so a new sample only shows up in the
// output of the following Step.
type LowPass struct {
	omega float32
	yPrev float32
	xPrev float32
}

// Omega returns 2π·cutoff/rate.
func Omega(cutoffHz, sampleRateHz float32) float32 {
	return 2 * math32.Pi * cutoffHz / sampleRateHz
}

// New creates a filter for the given cutoff and sample rate.
func New(cutoffHz, sampleRateHz float32) (*LowPass, error) {
	if sampleRateHz <= 0 {
		return nil, errors.Wrapf(ErrUnstable, "sample rate %v Hz", sampleRateHz)
	}
	return NewWithOmega(Omega(cutoffHz, sampleRateHz))
}

// NewWithOmega creates a filter with a precomputed ω.
func NewWithOmega(omega float32) (*LowPass, error) {
	if !(omega > 0 && omega < 2) {
		return nil, errors.Wrapf(ErrUnstable, "omega %v", omega)
	}
	return &LowPass{omega: omega}, nil
}

// Step feeds one sample and returns the new output.
// The order is fixed: output from the old state, then x, then y.
func (f *LowPass) Step(x float32) float32 {
	y := (1-f.omega)*f.yPrev + f.omega*f.xPrev
	f.xPrev = x
	f.yPrev = y
	return y
}

// Omega returns the coefficient the filter was built with.
func (f *LowPass) Omega() float32 {
	return f.omega
}

// State returns the previous output and previous input.
func (f *LowPass) State() (y, x float32) {
	return f.yPrev, f.xPrev
}

// Reset zeroes the filter state.
func (f *LowPass) Reset() {
	f.yPrev = 0
	f.xPrev = 0
}
