package sample

import (
	"time"

	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/scale"
	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/rs/zerolog/log"
)

// Sample represents a telemetry frame in physical units.
type Sample struct {
	Timestamp time.Time
	Input     float64        // Input voltage (V), from the raw reading
	Output    float64        // Filtered analog output voltage (V)
	Digits    display.Digits // What the 4-digit display showed
}

// Converter is a function type that converts a Frame channel to a Sample channel.
type Converter func(in <-chan telemetry.Frame) <-chan Sample

// NewConverter creates a converter function that transforms Frames to Samples.
func NewConverter(cfg *config.Config, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan telemetry.Frame) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			for f := range in {
				select {
				case out <- convertFrame(f, cfg):
				case <-time.After(time.Second):
					log.Warn().Msg("converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}

// convertFrame converts a Frame to a Sample using configuration.
func convertFrame(f telemetry.Frame, cfg *config.Config) Sample {
	return Sample{
		Timestamp: f.Timestamp,
		Input:     millivoltsToVolts(f.Millivolts),
		Output:    outputToVolts(f.Output, cfg.Device.OutputVRef),
		Digits:    f.Digits,
	}
}

func millivoltsToVolts(mv uint16) float64 {
	return float64(mv) / 1000
}

// outputToVolts converts a 10-bit analog output value to voltage.
func outputToVolts(out uint16, vref float64) float64 {
	return float64(out) / scale.OutputMax * vref
}
