package display

// Segment bits: a to f run clockwise from the top, g is the middle bar.
const (
	SegA uint8 = 1 << iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
	SegDP
)

var segments = [10]uint8{
	SegA | SegB | SegC | SegD | SegE | SegF,        // 0
	SegB | SegC,                                    // 1
	SegA | SegB | SegD | SegE | SegG,               // 2
	SegA | SegB | SegC | SegD | SegG,               // 3
	SegB | SegC | SegF | SegG,                      // 4
	SegA | SegC | SegD | SegF | SegG,               // 5
	SegA | SegC | SegD | SegE | SegF | SegG,        // 6
	SegA | SegB | SegC,                             // 7
	SegA | SegB | SegC | SegD | SegE | SegF | SegG, // 8
	SegA | SegB | SegC | SegD | SegF | SegG,        // 9
}

// Segments returns the seven-segment pattern for a digit. Out of range values
// and blank digits light nothing but the decimal point.
func Segments(value uint8, decimalPoint, blank bool) uint8 {
	var s uint8
	if !blank && int(value) < len(segments) {
		s = segments[value]
	}
	if decimalPoint {
		s |= SegDP
	}
	return s
}
