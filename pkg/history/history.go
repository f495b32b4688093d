package history

import (
	"sync"
	"time"

	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/sample"
)

var _ Trace = (*Recorder)(nil)

// Stats summarizes the samples currently held in the window.
type Stats struct {
	Count     int
	InputMin  float64
	InputMax  float64
	InputAvg  float64
	OutputMin float64
	OutputMax float64
	OutputAvg float64
}

// InputRipple is the peak-to-peak input voltage.
func (s Stats) InputRipple() float64 { return s.InputMax - s.InputMin }

// OutputRipple is the peak-to-peak filtered output voltage.
func (s Stats) OutputRipple() float64 { return s.OutputMax - s.OutputMin }

// Attenuation is the ratio of output to input ripple. Zero if the input is flat.
func (s Stats) Attenuation() float64 {
	in := s.InputRipple()
	if in <= 0 {
		return 0
	}
	return s.OutputRipple() / in
}

// Trace processes samples and keeps a time window of them.
type Trace interface {
	Process(input <-chan sample.Sample)
	Samples() []sample.Sample
	Stats() Stats
	OnUpdate(func(samples []sample.Sample, stats Stats))
}

// Recorder implements Trace.
// Samples are kept in a FIFO ordered oldest first; removal is by timestamp,
// not by count.
type Recorder struct {
	mu       sync.RWMutex
	window   time.Duration
	samples  []sample.Sample
	shutdown bool // set when the input channel closes, suppresses callbacks

	cbMu      sync.RWMutex
	callbacks []func(samples []sample.Sample, stats Stats)
}

// New creates a Recorder with the window from cfg.Display.
func New(cfg *config.Config) *Recorder {
	return NewWindow(time.Duration(cfg.Display.WindowSeconds * float64(time.Second)))
}

// NewWindow creates a Recorder keeping samples newer than window.
// A non-positive window keeps only the latest sample.
func NewWindow(window time.Duration) *Recorder {
	return &Recorder{
		window:  window,
		samples: make([]sample.Sample, 0),
	}
}

// SetWindow changes the window and trims the held samples to it.
func (r *Recorder) SetWindow(window time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.window = window
	r.trim()
}

// Window returns the current window.
func (r *Recorder) Window() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.window
}

// Process consumes samples until the input channel closes.
// After that no more callbacks are issued until ResetShutdown.
func (r *Recorder) Process(input <-chan sample.Sample) {
	for s := range input {
		r.add(s)
	}
	r.mu.Lock()
	r.shutdown = true
	r.mu.Unlock()
}

func (r *Recorder) add(s sample.Sample) {
	r.mu.Lock()
	r.samples = append(r.samples, s)
	r.trim()

	notify := !r.shutdown
	r.mu.Unlock()

	if notify {
		r.notifyCallbacks()
	}
}

// trim drops samples older than the window, measured from the newest one.
// Caller holds mu.
func (r *Recorder) trim() {
	n := len(r.samples)
	if n == 0 {
		return
	}
	if r.window <= 0 {
		r.samples = r.samples[n-1:]
		return
	}

	cutoff := r.samples[n-1].Timestamp.Add(-r.window)
	idx := n - 1
	for i, old := range r.samples {
		if old.Timestamp.After(cutoff) {
			idx = i
			break
		}
	}
	if idx > 0 {
		r.samples = r.samples[idx:]
	}
}

// Samples returns a copy of the current window.
func (r *Recorder) Samples() []sample.Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]sample.Sample, len(r.samples))
	copy(result, r.samples)
	return result
}

// Stats computes statistics over the current window.
func (r *Recorder) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return statsOf(r.samples)
}

// OnUpdate registers a callback invoked after every processed sample.
// The callback should copy what it needs and return quickly.
func (r *Recorder) OnUpdate(callback func(samples []sample.Sample, stats Stats)) {
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	r.callbacks = append(r.callbacks, callback)
}

// ResetShutdown re-enables callbacks before starting a new chain.
func (r *Recorder) ResetShutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdown = false
}

// Clear drops all samples.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = r.samples[:0]
}

func (r *Recorder) notifyCallbacks() {
	r.mu.RLock()
	samplesCopy := make([]sample.Sample, len(r.samples))
	copy(samplesCopy, r.samples)
	stats := statsOf(r.samples)
	r.mu.RUnlock()

	r.cbMu.RLock()
	callbacks := make([]func(samples []sample.Sample, stats Stats), len(r.callbacks))
	copy(callbacks, r.callbacks)
	r.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(samplesCopy, stats)
		}
	}
}

func statsOf(samples []sample.Sample) Stats {
	var st Stats
	if len(samples) == 0 {
		return st
	}

	st.Count = len(samples)
	st.InputMin, st.InputMax = samples[0].Input, samples[0].Input
	st.OutputMin, st.OutputMax = samples[0].Output, samples[0].Output
	var inSum, outSum float64
	for _, s := range samples {
		st.InputMin = min(st.InputMin, s.Input)
		st.InputMax = max(st.InputMax, s.Input)
		st.OutputMin = min(st.OutputMin, s.Output)
		st.OutputMax = max(st.OutputMax, s.Output)
		inSum += s.Input
		outSum += s.Output
	}
	st.InputAvg = inSum / float64(st.Count)
	st.OutputAvg = outSum / float64(st.Count)
	return st
}
