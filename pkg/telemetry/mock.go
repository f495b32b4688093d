//go:build !tinygo

package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/itohio/golpf/pkg/analog"
	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/filter"
	"github.com/itohio/golpf/pkg/scale"
	"github.com/itohio/golpf/pkg/trigger"
	"github.com/itohio/golpf/pkg/voltmeter"
)

// Mock runs the complete voltmeter against a simulated input and reports it
// as telemetry frames, the same way the firmware would.
type Mock struct {
	interval time.Duration

	port  *analog.Simulated
	latch *display.Latch
	meter *voltmeter.Meter

	frames    chan Frame
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool
}

// NewMock creates a simulated device from cfg. Nil cfg uses config.Default.
func NewMock(cfg *config.Config) (*Mock, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	res := scale.Resolution(cfg.Device.Resolution)
	vcfg := voltmeter.DefaultConfig(res)
	if cfg.Device.LegacyPi {
		vcfg.Omega = filter.LegacyOmega
	}

	port := analog.NewSimulated(WaveformOf(cfg.Simulation), res, vcfg.SampleRateHz)
	latch := display.NewLatch()
	meter, err := voltmeter.New(vcfg, port, latch,
		trigger.NewTicker(voltmeter.SampleWidth),
		trigger.NewTicker(voltmeter.DisplayWidth),
	)
	if err != nil {
		return nil, err
	}

	interval := cfg.Simulation.TelemetryInterval
	if interval <= 0 {
		interval = config.Default().Simulation.TelemetryInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		interval: interval,
		port:     port,
		latch:    latch,
		meter:    meter,
		frames:   make(chan Frame, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// WaveformOf converts the simulation config into a waveform.
func WaveformOf(s config.SimulationConfig) analog.Waveform {
	return analog.Waveform{
		OffsetMV:    float32(s.OffsetMV),
		AmplitudeMV: float32(s.AmplitudeMV),
		FrequencyHz: float32(s.FrequencyHz),
		NoiseMV:     float32(s.NoiseMV),
	}
}

// Connect starts both voltmeter tasks and the frame generator.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return ErrConnected
	}

	if err := m.meter.Start(); err != nil {
		return err
	}
	m.connected = true

	go m.generateFrames()

	return nil
}

// Close stops the voltmeter and closes the frames channel.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	<-m.done
	m.meter.Stop()
	m.connected = false
	close(m.frames)

	return nil
}

// Frames returns the channel for reading frames.
func (m *Mock) Frames() <-chan Frame {
	return m.frames
}

// IsConnected returns whether the device is currently running.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// SetWaveform changes the simulated input while running.
func (m *Mock) SetWaveform(w analog.Waveform) {
	m.port.SetWaveform(w)
}

// Meter returns the simulated voltmeter.
func (m *Mock) Meter() *voltmeter.Meter {
	return m.meter
}

func (m *Mock) generateFrames() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			// the latch holds what a viewer of the multiplexed display sees
			frame := FrameOf(now, m.meter.Snapshot(), m.latch.Digits())
			select {
			case m.frames <- frame:
			case <-m.ctx.Done():
				return
			default:
			}
		}
	}
}
