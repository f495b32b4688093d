package main

import (
	"bytes"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDevice(t *testing.T) {
	cfg := config.Default()

	d, err := openDevice(cfg, true)
	require.NoError(t, err)
	assert.IsType(t, &telemetry.Mock{}, d)

	d, err = openDevice(cfg, false)
	require.NoError(t, err)
	assert.IsType(t, &telemetry.Serial{}, d)
	assert.False(t, d.IsConnected())
}

func TestChain_MockToRecorder(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TelemetryInterval = 2 * time.Millisecond

	device, err := openDevice(cfg, true)
	require.NoError(t, err)
	require.NoError(t, device.Connect())

	recorder := history.New(cfg)
	var frames atomic.Int32
	chain := startChain(cfg, device, recorder, func(telemetry.Frame) {
		frames.Add(1)
	})

	require.Eventually(t, func() bool {
		return recorder.Stats().Count >= 5
	}, 2*time.Second, 5*time.Millisecond)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		chain.Close()
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("chain did not drain")
	}

	assert.False(t, device.IsConnected())
	assert.Equal(t, int(frames.Load()), recorder.Stats().Count)

	st := recorder.Stats()
	assert.Greater(t, st.InputMax, 0.0)
	assert.LessOrEqual(t, st.OutputMax, cfg.Device.OutputVRef)
}

func TestChain_CloseNil(t *testing.T) {
	var chain *measurementChain
	assert.NotPanics(t, chain.Close)
}

func TestLogDevice(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	cfg := config.Default()
	mock, err := openDevice(cfg, true)
	require.NoError(t, err)
	logDevice(mock)

	out := buf.String()
	assert.Contains(t, out, `"sample_hz":1000`)
	assert.Contains(t, out, `"sample_mode":"NPWM"`)
	assert.Contains(t, out, `"refresh_mode":"MFRQ"`)

	buf.Reset()
	serial, err := openDevice(cfg, false)
	require.NoError(t, err)
	logDevice(serial)
	assert.Empty(t, buf.String())
}
