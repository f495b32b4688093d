// Package voltmeter wires the sampling and display tasks to their triggers.
package voltmeter

import (
	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/filter"
	"github.com/itohio/golpf/pkg/sampling"
	"github.com/itohio/golpf/pkg/trigger"
	"github.com/pkg/errors"
)

// Meter runs the sampling task and the display task on two independent
// triggers. The tasks only share the digit buffer.
type Meter struct {
	cfg Config

	digits  *display.Buffer
	sampler *sampling.Context
	mux     *display.Multiplexer

	sampleTrigger  trigger.PeriodicTrigger
	displayTrigger trigger.PeriodicTrigger
}

// New configures both triggers and registers the task callbacks. The triggers
// are left disabled; call Start to run.
func New(cfg Config, port sampling.AnalogPort, out display.DigitDisplay, sampleTrigger, displayTrigger trigger.PeriodicTrigger) (*Meter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateRates(sampleTrigger.Width(), displayTrigger.Width()); err != nil {
		return nil, err
	}

	var (
		lp  *filter.LowPass
		err error
	)
	if cfg.Omega != 0 {
		lp, err = filter.NewWithOmega(cfg.Omega)
	} else {
		lp, err = filter.New(cfg.CutoffHz, cfg.SampleRateHz)
	}
	if err != nil {
		return nil, err
	}

	digits := display.NewBuffer()
	m := &Meter{
		cfg:            cfg,
		digits:         digits,
		sampler:        sampling.New(port, lp, digits, cfg.Resolution),
		mux:            display.NewMultiplexer(out, digits),
		sampleTrigger:  sampleTrigger,
		displayTrigger: displayTrigger,
	}

	if err := sampleTrigger.Configure(cfg.SampleTimer); err != nil {
		return nil, errors.Wrap(err, "sampling trigger")
	}
	sampleTrigger.OnExpire(m.sampler.Step)

	if err := displayTrigger.Configure(cfg.DisplayTimer); err != nil {
		return nil, errors.Wrap(err, "display trigger")
	}
	displayTrigger.OnExpire(m.mux.Step)

	return m, nil
}

// Start enables sampling, then the display.
func (m *Meter) Start() error {
	if err := m.sampleTrigger.Enable(); err != nil {
		return errors.Wrap(err, "sampling trigger")
	}
	if err := m.displayTrigger.Enable(); err != nil {
		m.sampleTrigger.Disable()
		return errors.Wrap(err, "display trigger")
	}
	return nil
}

// Stop disables both triggers. No task runs once Stop returns.
func (m *Meter) Stop() {
	m.displayTrigger.Disable()
	m.sampleTrigger.Disable()
}

// Digits returns the current content of the shared digit buffer.
func (m *Meter) Digits() display.Digits {
	return m.digits.Load()
}

// Snapshot returns the state of the last sampling activation.
func (m *Meter) Snapshot() sampling.Snapshot {
	return m.sampler.Snapshot()
}

// Config returns the configuration the meter was built with.
func (m *Meter) Config() Config {
	return m.cfg
}
