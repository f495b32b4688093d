package display

import "sync/atomic"

// Latch is a DigitDisplay that keeps the last value shown at every position,
// the way a lit digit persists on the eye between refreshes.
type Latch struct {
	cells   [Size]atomic.Uint32
	refresh [Size]atomic.Uint64
}

var _ DigitDisplay = (*Latch)(nil)

// NewLatch returns a latch showing the power-on sentinel. The zero Latch shows 0000.
func NewLatch() *Latch {
	l := &Latch{}
	for i := range l.cells {
		l.cells[i].Store(Sentinel)
	}
	return l
}

// ShowDigit records value at position. Blank positions are stored as 0.
func (l *Latch) ShowDigit(position, value uint8, decimalPoint, blank bool) {
	if int(position) >= Size {
		return
	}
	if blank {
		value = 0
	}
	l.cells[position].Store(uint32(value))
	l.refresh[position].Add(1)
}

// Digits returns what the viewer sees, converted back to buffer order
// (index 0 is the ones digit).
func (l *Latch) Digits() Digits {
	var d Digits
	for pos := range l.cells {
		d[Size-1-pos] = uint8(l.cells[pos].Load())
	}
	return d
}

// Refreshes returns how many times each position has been driven.
func (l *Latch) Refreshes() [Size]uint64 {
	var r [Size]uint64
	for i := range l.refresh {
		r[i] = l.refresh[i].Load()
	}
	return r
}
