package main

import (
	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/voltmeter"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/sample"
	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/rs/zerolog/log"
)

// measurementChain tracks the goroutines fed by one connected device so they
// can be drained on disconnect.
//
//	device.Frames ─┬─ onFrame (digits)
//	               └─ converter ── recorder
type measurementChain struct {
	device       telemetry.Device
	teeDone      chan struct{} // closed when the frame fan-out exits
	recorderDone chan struct{} // closed when the recorder goroutine exits
}

// startChain wires a connected device into the recorder. onFrame is called
// for every frame before conversion and may be nil.
func startChain(cfg *config.Config, device telemetry.Device, recorder *history.Recorder, onFrame func(telemetry.Frame)) *measurementChain {
	chain := &measurementChain{
		device:       device,
		teeDone:      make(chan struct{}),
		recorderDone: make(chan struct{}),
	}

	frames := make(chan telemetry.Frame, telemetry.DefaultBufferSize)
	go func() {
		defer close(chain.teeDone)
		defer close(frames)
		for f := range device.Frames() {
			if onFrame != nil {
				onFrame(f)
			}
			frames <- f
		}
	}()

	samples := sample.NewConverter(cfg, 500)(frames)

	recorder.ResetShutdown()
	go func() {
		defer close(chain.recorderDone)
		recorder.Process(samples)
	}()

	return chain
}

// Close closes the device and waits for the chain to drain.
func (c *measurementChain) Close() {
	if c == nil {
		return
	}

	if c.device != nil {
		c.device.Close()
	}
	<-c.teeDone
	<-c.recorderDone
}

// openDevice creates the configured device: the simulated board when mock is set,
// the serial port otherwise.
func openDevice(cfg *config.Config, mock bool) (telemetry.Device, error) {
	if mock {
		return telemetry.NewMock(cfg)
	}
	return telemetry.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, telemetry.DefaultBufferSize), nil
}

// logDevice logs the timer setup of a simulated board. Serial devices only
// report what the firmware was built with, so there is nothing to log.
func logDevice(device telemetry.Device) {
	mock, ok := device.(*telemetry.Mock)
	if !ok {
		return
	}

	cfg := mock.Meter().Config()
	log.Info().
		Uint8("resolution", uint8(cfg.Resolution)).
		Float64("sample_hz", cfg.SampleTimer.Frequency(voltmeter.SampleWidth)).
		Stringer("sample_mode", cfg.SampleTimer.Mode).
		Float64("refresh_hz", cfg.DisplayTimer.Frequency(voltmeter.DisplayWidth)).
		Stringer("refresh_mode", cfg.DisplayTimer.Mode).
		Float32("cutoff_hz", cfg.CutoffHz).
		Msg("simulated board")
}
