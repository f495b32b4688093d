//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/golpf/pkg/scale"
)

const (
	// ADC configuration
	ADC_REFERENCE_MV = 3300         // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = scale.Bits12 // 12 or 16; the sample is rescaled accordingly

	// Analog pins
	PIN_ADC = machine.A1
	PIN_DAC = machine.A0 // DAC0 output, 10 bit

	// Display: common cathode, segments active high, digit enables active low.
	// Digit 0 is the leftmost (thousands).
	PIN_SEG_A  = machine.D2
	PIN_SEG_B  = machine.D3
	PIN_SEG_C  = machine.D4
	PIN_SEG_D  = machine.D5
	PIN_SEG_E  = machine.D6
	PIN_SEG_F  = machine.D7
	PIN_SEG_G  = machine.D8
	PIN_SEG_DP = machine.D9

	PIN_DIGIT0 = machine.D10
	PIN_DIGIT1 = machine.D11
	PIN_DIGIT2 = machine.D12
	PIN_DIGIT3 = machine.D13

	// Telemetry over USB CDC.
	// Line format: "micros,raw,output,millivolts,DDDD\n", at most ~30 bytes.
	// 10 lines/sec is ~300 bytes/sec, far below what the link carries.
	TELEMETRY_INTERVAL_MS = 100
)

var (
	segmentPins = [8]machine.Pin{PIN_SEG_A, PIN_SEG_B, PIN_SEG_C, PIN_SEG_D, PIN_SEG_E, PIN_SEG_F, PIN_SEG_G, PIN_SEG_DP}
	digitPins   = [4]machine.Pin{PIN_DIGIT0, PIN_DIGIT1, PIN_DIGIT2, PIN_DIGIT3}
)
