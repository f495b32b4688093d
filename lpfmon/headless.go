package main

import (
	"context"
	"time"

	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// runHeadless streams frames to the log and prints window statistics once per
// display window until ctx is cancelled.
func runHeadless(ctx context.Context, cfg *config.Config, mock bool) error {
	device, err := openDevice(cfg, mock)
	if err != nil {
		return errors.Wrap(err, "create device")
	}
	if err := device.Connect(); err != nil {
		return errors.Wrap(err, "connect")
	}
	logDevice(device)

	recorder := history.New(cfg)
	chain := startChain(cfg, device, recorder, func(f telemetry.Frame) {
		log.Debug().
			Time("ts", f.Timestamp).
			Uint16("raw", f.Raw).
			Uint16("out", f.Output).
			Uint16("mv", f.Millivolts).
			Stringer("display", f.Digits).
			Msg("frame")
	})
	defer chain.Close()

	period := time.Duration(cfg.Display.WindowSeconds * float64(time.Second))
	if period <= 0 {
		period = time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := recorder.Stats()
			log.Info().
				Int("samples", st.Count).
				Float64("in_avg", st.InputAvg).
				Float64("in_pp", st.InputRipple()).
				Float64("out_avg", st.OutputAvg).
				Float64("out_pp", st.OutputRipple()).
				Float64("attenuation", st.Attenuation()).
				Msg("window")
		}
	}
}
