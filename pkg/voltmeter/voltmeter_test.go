package voltmeter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/filter"
	"github.com/itohio/golpf/pkg/scale"
	"github.com/itohio/golpf/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constPort struct {
	value uint16
	out   atomic.Uint32
}

func (p *constPort) Read() uint16       { return p.value }
func (p *constPort) Write(value uint16) { p.out.Store(uint32(value)) }

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(scale.Bits12)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Millisecond, cfg.SampleTimer.Interval(SampleWidth))
	assert.Greater(t, cfg.DisplayTimer.Frequency(DisplayWidth)/display.Size, float64(MinRefreshHz))
	assert.LessOrEqual(t, cfg.SampleTimer.Period, trigger.Width8.Max())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "resolution", mutate: func(c *Config) { c.Resolution = 10 }},
		{name: "zero cutoff", mutate: func(c *Config) { c.CutoffHz = 0 }},
		{name: "sample timer mismatch", mutate: func(c *Config) { c.SampleTimer.Period = 499 }},
		{name: "display flicker", mutate: func(c *Config) { c.DisplayTimer.Period = 0xFFFF }},
		{name: "display free running", mutate: func(c *Config) { c.DisplayTimer.Mode = trigger.NormalFrequency }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(scale.Bits16)
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfig)
		})
	}
}

func newManualMeter(t *testing.T, port *constPort) (*Meter, *display.Latch, *trigger.Manual, *trigger.Manual) {
	t.Helper()
	latch := &display.Latch{}
	st := trigger.NewManual(trigger.Width8)
	dt := trigger.NewManual(trigger.Width16)
	m, err := New(DefaultConfig(scale.Bits12), port, latch, st, dt)
	require.NoError(t, err)
	return m, latch, st, dt
}

func TestMeter_SentinelBeforeSampling(t *testing.T) {
	m, latch, st, dt := newManualMeter(t, &constPort{value: 2048})
	assert.False(t, st.Enabled())
	assert.False(t, dt.Enabled())

	require.NoError(t, m.Start())
	dt.FireN(2 * display.Size)

	assert.Equal(t, display.Digits{1, 1, 1, 1}, latch.Digits())
	assert.Equal(t, display.Digits{1, 1, 1, 1}, m.Digits())
}

func TestMeter_Pipeline(t *testing.T) {
	port := &constPort{value: 2048}
	m, latch, st, dt := newManualMeter(t, port)
	require.NoError(t, m.Start())

	st.FireN(3)
	dt.FireN(display.Size)

	assert.Equal(t, display.Decompose(1650), latch.Digits())
	assert.Equal(t, uint64(3), m.Snapshot().Activations)
	assert.NotZero(t, port.out.Load())

	m.Stop()
	assert.Zero(t, st.FireN(5))
	assert.Zero(t, dt.FireN(5))
	assert.Equal(t, uint64(3), m.Snapshot().Activations)
}

func TestMeter_LegacyOmega(t *testing.T) {
	cfg := DefaultConfig(scale.Bits12)
	cfg.Omega = filter.LegacyOmega
	port := &constPort{value: 2048}
	st := trigger.NewManual(trigger.Width8)
	m, err := New(cfg, port, &display.Latch{}, st, trigger.NewManual(trigger.Width16))
	require.NoError(t, err)
	require.NoError(t, m.Start())

	st.FireN(2)
	assert.InDelta(t, 1286.14, m.Snapshot().Filtered, 0.01)
}

func TestMeter_SampleTriggerTooNarrow(t *testing.T) {
	cfg := DefaultConfig(scale.Bits12)
	cfg.SampleTimer = trigger.Config{ClockHz: 1_000_000, Prescale: 1, Period: 999, Mode: trigger.MatchFrequency}
	_, err := New(cfg, &constPort{}, &display.Latch{}, trigger.NewManual(trigger.Width8), trigger.NewManual(trigger.Width16))
	assert.ErrorIs(t, err, trigger.ErrPeriodRange)
}

func TestMeter_RatesUseTriggerWidth(t *testing.T) {
	cfg := DefaultConfig(scale.Bits12)
	// free running 8-bit counter: 256 kHz / 256 = 1 kHz
	cfg.SampleTimer = trigger.Config{ClockHz: 256_000, Prescale: 1, Mode: trigger.NormalFrequency}
	require.NoError(t, cfg.Validate())

	_, err := New(cfg, &constPort{}, &display.Latch{}, trigger.NewManual(trigger.Width8), trigger.NewManual(trigger.Width16))
	assert.NoError(t, err)

	_, err = New(cfg, &constPort{}, &display.Latch{}, trigger.NewManual(trigger.Width16), trigger.NewManual(trigger.Width16))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestMeter_Tickers(t *testing.T) {
	port := &constPort{value: 4095}
	latch := &display.Latch{}
	m, err := New(DefaultConfig(scale.Bits12), port, latch, trigger.NewTicker(trigger.Width8), trigger.NewTicker(trigger.Width16))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	defer m.Stop()

	assert.Eventually(t, func() bool {
		return latch.Digits() == display.Decompose(3300)
	}, 2*time.Second, 5*time.Millisecond)
}
