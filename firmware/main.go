//go:build tinygo

//go:generate tinygo flash -target=arduino-zero

package main

import (
	"context"
	"machine"
	"time"

	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/itohio/golpf/pkg/trigger"
	"github.com/itohio/golpf/pkg/voltmeter"
)

func main() {
	port := newAnalogPort(ADC_RESOLUTION)
	digits := newSegmentDisplay()

	cfg := voltmeter.DefaultConfig(ADC_RESOLUTION)
	meter, err := voltmeter.New(cfg, port, digits,
		trigger.NewTicker(voltmeter.SampleWidth),
		trigger.NewTicker(voltmeter.DisplayWidth),
	)
	if err != nil {
		halt(err)
	}
	if err := meter.Start(); err != nil {
		halt(err)
	}

	println("voltmeter running")

	emitter := telemetry.NewEmitter(machine.Serial, meter)
	for {
		// a failed write means the host went away; keep measuring and retry
		if err := emitter.Run(context.Background(), TELEMETRY_INTERVAL_MS*time.Millisecond); err != nil {
			time.Sleep(time.Second)
		}
	}
}

// halt reports a setup error forever; the display keeps the power-on pattern.
func halt(err error) {
	for {
		println("setup failed:", err.Error())
		time.Sleep(time.Second)
	}
}
