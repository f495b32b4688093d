// Package scale maps raw ADC samples onto the analog output and millivolt domains.
package scale

// Resolution is the ADC sample width in bits.
type Resolution uint8

const (
	Bits12 Resolution = 12
	Bits16 Resolution = 16
)

const (
	// OutputMax is the full scale of the analog output.
	OutputMax = 1023
	// MillivoltsMax is the voltage reported at full scale input.
	MillivoltsMax = 3300
)

// Valid reports whether r is a supported resolution.
func (r Resolution) Valid() bool {
	return r == Bits12 || r == Bits16
}

// Max returns the native full scale, 2^r - 1.
func (r Resolution) Max() uint32 {
	return uint32(1)<<r - 1
}

// Map linearly interpolates x from [inLo, inHi] to [outLo, outHi].
func Map(x, inLo, inHi, outLo, outHi float32) float32 {
	return outLo + (x-inLo)*(outHi-outLo)/(inHi-inLo)
}

// Map32 is the integer form of Map. x must not be below inLo.
func Map32(x, inLo, inHi, outLo, outHi uint32) uint32 {
	return outLo + uint32(uint64(x-inLo)*uint64(outHi-outLo)/uint64(inHi-inLo))
}

// Output rescales a filtered value to [0, OutputMax]. Values outside the range
// are clamped and the fraction is truncated.
func Output(y float32, r Resolution) uint16 {
	v := Map(y, 0, float32(r.Max()), 0, OutputMax)
	switch {
	case v <= 0:
		return 0
	case v >= OutputMax:
		return OutputMax
	}
	return uint16(v)
}

// Millivolts rescales a raw sample to [0, MillivoltsMax] using the full scale of r.
func Millivolts(raw uint16, r Resolution) uint32 {
	return Map32(uint32(raw), 0, r.Max(), 0, MillivoltsMax)
}
