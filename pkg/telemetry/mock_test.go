//go:build !tinygo

package telemetry

import (
	"testing"
	"time"

	"github.com/itohio/golpf/pkg/analog"
	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_Frames(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation = config.SimulationConfig{
		OffsetMV:          1650,
		TelemetryInterval: 5 * time.Millisecond,
	}

	m, err := NewMock(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Connect())
	assert.True(t, m.IsConnected())
	assert.ErrorIs(t, m.Connect(), ErrConnected)

	// DC input: raw 2048 at 12 bits is 1650 mV, shown once all digits refreshed
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-m.Frames():
			if f.Digits != display.Decompose(1650) {
				continue
			}
			assert.Equal(t, uint16(2048), f.Raw)
			assert.Equal(t, uint16(1650), f.Millivolts)
			require.NoError(t, m.Close())
			assert.False(t, m.IsConnected())
			return
		case <-deadline:
			t.Fatal("no frame with settled digits")
		}
	}
}

func TestMock_SentinelBeforeFirstRefresh(t *testing.T) {
	m, err := NewMock(config.Default())
	require.NoError(t, err)

	// nothing runs before Connect, so the latch still holds the power-on pattern
	f := FrameOf(time.Now(), m.Meter().Snapshot(), m.latch.Digits())
	assert.Equal(t, display.Digits{1, 1, 1, 1}, f.Digits)
	assert.Equal(t, m.Meter().Digits(), f.Digits)
}

func TestMock_GracefulShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TelemetryInterval = time.Millisecond

	m, err := NewMock(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Connect())

	m.SetWaveform(analog.Waveform{OffsetMV: 3300})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range m.Frames() {
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frames channel was not closed")
	}

	activations := m.Meter().Snapshot().Activations
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, activations, m.Meter().Snapshot().Activations, "sampling continued after close")
}

func TestMock_InvalidResolution(t *testing.T) {
	cfg := config.Default()
	cfg.Device.Resolution = 10
	_, err := NewMock(cfg)
	assert.Error(t, err)
}
