// Package analog provides a simulated analog front end for running the
// voltmeter without hardware.
package analog

import (
	"sync"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/itohio/golpf/pkg/sampling"
	"github.com/itohio/golpf/pkg/scale"
)

// Waveform describes the simulated input voltage in millivolts.
type Waveform struct {
	OffsetMV    float32
	AmplitudeMV float32
	FrequencyHz float32
	NoiseMV     float32
}

// Simulated is an AnalogPort producing a deterministic waveform, one step per
// Read, quantized to the configured resolution.
type Simulated struct {
	resolution scale.Resolution
	dt         float32

	mu       sync.Mutex
	waveform Waveform
	n        uint64

	output atomic.Uint32
	writes atomic.Uint64
}

var _ sampling.AnalogPort = (*Simulated)(nil)

// NewSimulated creates a port sampled at sampleRateHz.
func NewSimulated(w Waveform, r scale.Resolution, sampleRateHz float32) *Simulated {
	return &Simulated{
		resolution: r,
		dt:         1 / sampleRateHz,
		waveform:   w,
	}
}

// SetWaveform replaces the waveform without resetting time.
func (s *Simulated) SetWaveform(w Waveform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waveform = w
}

// Waveform returns the current waveform.
func (s *Simulated) Waveform() Waveform {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waveform
}

// Read returns the next sample.
func (s *Simulated) Read() uint16 {
	s.mu.Lock()
	w := s.waveform
	t := float32(s.n) * s.dt
	s.n++
	s.mu.Unlock()

	mv := w.OffsetMV + w.AmplitudeMV*math32.Sin(2*math32.Pi*w.FrequencyHz*t)
	// deterministic hash-like noise, two incommensurate tones
	mv += w.NoiseMV * 0.5 * (math32.Sin(t*7919) + math32.Cos(t*104729))

	return Quantize(mv, s.resolution)
}

// Write stores the output value.
func (s *Simulated) Write(value uint16) {
	s.output.Store(uint32(value))
	s.writes.Add(1)
}

// Output returns the last written output value.
func (s *Simulated) Output() uint16 {
	return uint16(s.output.Load())
}

// Writes returns how many times the output was written.
func (s *Simulated) Writes() uint64 {
	return s.writes.Load()
}

// Quantize converts millivolts to a raw sample of resolution r, clamped to
// the native range.
func Quantize(mv float32, r scale.Resolution) uint16 {
	v := mv / scale.MillivoltsMax * float32(r.Max())
	switch {
	case v <= 0:
		return 0
	case v >= float32(r.Max()):
		return uint16(r.Max())
	}
	return uint16(math32.Floor(v + 0.5))
}
