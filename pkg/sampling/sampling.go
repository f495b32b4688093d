// Package sampling implements the periodic read, filter, write and display
// update cycle.
package sampling

import (
	"math"
	"sync/atomic"

	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/filter"
	"github.com/itohio/golpf/pkg/scale"
)

// AnalogPort is the physical analog input and output.
type AnalogPort interface {
	// Read returns one sample in [0, 2^R - 1].
	Read() uint16
	// Write drives the output with a value in [0, 1023].
	Write(value uint16)
}

// Snapshot describes the most recent activation.
type Snapshot struct {
	Activations uint64
	Raw         uint16
	Filtered    float32
	Output      uint16
	Millivolts  uint32
}

// Context owns the filter state of the sampling task and the reference to the
// shared digit buffer. Step must be driven from a single trigger.
type Context struct {
	port       AnalogPort
	filter     *filter.LowPass
	digits     *display.Buffer
	resolution scale.Resolution

	// published for observers only; Step never reads these back
	activations atomic.Uint64
	raw         atomic.Uint32
	filtered    atomic.Uint32
	output      atomic.Uint32
	millivolts  atomic.Uint32
}

// New creates a sampling context.
func New(port AnalogPort, f *filter.LowPass, digits *display.Buffer, r scale.Resolution) *Context {
	return &Context{
		port:       port,
		filter:     f,
		digits:     digits,
		resolution: r,
	}
}

// Step runs one activation: one Read, one Write, one buffer overwrite.
// The display shows the raw sample, the output carries the filtered one.
func (c *Context) Step() {
	raw := c.port.Read()

	y := c.filter.Step(float32(raw))
	out := scale.Output(y, c.resolution)
	c.port.Write(out)

	mv := scale.Millivolts(raw, c.resolution)
	c.digits.Store(display.Decompose(mv))

	c.raw.Store(uint32(raw))
	c.filtered.Store(math.Float32bits(y))
	c.output.Store(uint32(out))
	c.millivolts.Store(mv)
	c.activations.Add(1)
}

// Snapshot returns the values of the last activation. Fields are loaded one by
// one and may straddle two activations.
func (c *Context) Snapshot() Snapshot {
	return Snapshot{
		Activations: c.activations.Load(),
		Raw:         uint16(c.raw.Load()),
		Filtered:    math.Float32frombits(c.filtered.Load()),
		Output:      uint16(c.output.Load()),
		Millivolts:  c.millivolts.Load(),
	}
}

// Resolution returns the configured sample width.
func (c *Context) Resolution() scale.Resolution {
	return c.resolution
}
