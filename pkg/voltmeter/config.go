package voltmeter

import (
	"math"

	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/scale"
	"github.com/itohio/golpf/pkg/trigger"
	"github.com/pkg/errors"
)

const (
	SampleRateHz = 1000
	CutoffHz     = 100
	// MinRefreshHz is the lowest per-digit refresh rate that does not flicker.
	MinRefreshHz = 60

	// SampleWidth and DisplayWidth are the counter widths of the two timers.
	SampleWidth  = trigger.Width8
	DisplayWidth = trigger.Width16
)

var ErrConfig = errors.New("invalid voltmeter config")

// Config is fixed at build time on the device.
type Config struct {
	Resolution   scale.Resolution
	SampleRateHz float32
	CutoffHz     float32
	// Omega overrides the coefficient derived from CutoffHz and SampleRateHz
	// when non-zero.
	Omega        float32
	SampleTimer  trigger.Config
	DisplayTimer trigger.Config
}

// DefaultConfig returns the board configuration for resolution r: a 1 kHz
// sampling counter and a display counter refreshing all digits at about 770 Hz.
func DefaultConfig(r scale.Resolution) Config {
	return Config{
		Resolution:   r,
		SampleRateHz: SampleRateHz,
		CutoffHz:     CutoffHz,
		SampleTimer: trigger.Config{
			ClockHz:  1_000_000,
			Prescale: 4,
			Period:   249,
			Mode:     trigger.NormalPWM,
		},
		DisplayTimer: trigger.Config{
			ClockHz:  8_000_000,
			Prescale: 32,
			Period:   0x50,
			Mode:     trigger.MatchFrequency,
		},
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if !c.Resolution.Valid() {
		return errors.Wrapf(ErrConfig, "resolution %d bits", c.Resolution)
	}
	if c.SampleRateHz <= 0 || c.CutoffHz <= 0 {
		return errors.Wrap(ErrConfig, "sample rate and cutoff must be positive")
	}
	return c.validateRates(SampleWidth, DisplayWidth)
}

// validateRates checks the timer rates for counters of the given widths.
func (c Config) validateRates(sampleWidth, displayWidth trigger.Width) error {
	sampleHz := c.SampleTimer.Frequency(sampleWidth)
	if math.Abs(sampleHz-float64(c.SampleRateHz)) > 0.01*float64(c.SampleRateHz) {
		return errors.Wrapf(ErrConfig, "sampling counter runs at %.1f Hz, filter expects %v Hz", sampleHz, c.SampleRateHz)
	}

	refreshHz := c.DisplayTimer.Frequency(displayWidth) / display.Size
	if refreshHz < MinRefreshHz {
		return errors.Wrapf(ErrConfig, "display refresh %.1f Hz flickers", refreshHz)
	}
	return nil
}
