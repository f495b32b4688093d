//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/scale"
)

// analogPort reads the ADC and drives the DAC.
type analogPort struct {
	adc   machine.ADC
	shift uint8
}

func newAnalogPort(r scale.Resolution) *analogPort {
	PIN_ADC.Configure(machine.PinConfig{Mode: machine.PinInput})
	adc := machine.ADC{Pin: PIN_ADC}
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: uint32(r),
	})

	machine.DAC0.Configure(machine.DACConfig{})

	// Get returns a 16 bit left aligned sample
	return &analogPort{
		adc:   adc,
		shift: 16 - uint8(r),
	}
}

// Read returns the sample at the configured resolution.
func (p *analogPort) Read() uint16 {
	return p.adc.Get() >> p.shift
}

// Write outputs a 0..1023 value; the DAC API is 16 bit left aligned.
func (p *analogPort) Write(value uint16) {
	machine.DAC0.Set(value << 6)
}

// segmentDisplay drives a multiplexed common cathode display directly from GPIO.
type segmentDisplay struct{}

func newSegmentDisplay() segmentDisplay {
	for _, pin := range segmentPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Low()
	}
	for _, pin := range digitPins {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.High()
	}
	return segmentDisplay{}
}

// ShowDigit blanks all digits, sets the segments and enables one position.
func (segmentDisplay) ShowDigit(position, value uint8, decimalPoint, blank bool) {
	for _, pin := range digitPins {
		pin.High()
	}

	bits := display.Segments(value, decimalPoint, blank)
	for i, pin := range segmentPins {
		pin.Set(bits&(1<<i) != 0)
	}

	if int(position) < len(digitPins) {
		digitPins[position].Low()
	}
}
