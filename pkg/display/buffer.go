// Package display holds the digit buffer shared between the sampling and
// display tasks, and the round-robin multiplexer that refreshes one digit
// position per activation.
package display

import "sync/atomic"

// Size is the number of digit positions.
const Size = 4

// Sentinel is shown in every position until the first sample arrives.
const Sentinel = 1

// Digits holds one decimal digit per position; index 0 is the ones digit.
type Digits [Size]uint8

// Decompose splits v into decimal digits. Values of 10000 and above wrap.
func Decompose(v uint32) Digits {
	return Digits{
		uint8(v % 10),
		uint8((v / 10) % 10),
		uint8((v / 100) % 10),
		uint8((v / 1000) % 10),
	}
}

// Value recombines the digits.
func (d Digits) Value() uint32 {
	return uint32(d[0]) + 10*uint32(d[1]) + 100*uint32(d[2]) + 1000*uint32(d[3])
}

// String renders the digits most significant first.
func (d Digits) String() string {
	return string([]byte{'0' + d[3], '0' + d[2], '0' + d[1], '0' + d[0]})
}

// Buffer is written wholesale by the sampling task and read one cell at a time
// by the display task. Each cell is atomic on its own; the four cells together
// are not, so a reader may see digits from two consecutive samples.
type Buffer struct {
	cells [Size]atomic.Uint32
}

// NewBuffer returns a buffer seeded with the sentinel digits.
func NewBuffer() *Buffer {
	b := &Buffer{}
	for i := range b.cells {
		b.cells[i].Store(Sentinel)
	}
	return b
}

// Store overwrites every cell.
func (b *Buffer) Store(d Digits) {
	for i, v := range d {
		b.cells[i].Store(uint32(v))
	}
}

// Digit returns the digit at position i.
func (b *Buffer) Digit(i int) uint8 {
	return uint8(b.cells[i].Load())
}

// Load returns a cell-by-cell snapshot.
func (b *Buffer) Load() Digits {
	var d Digits
	for i := range d {
		d[i] = b.Digit(i)
	}
	return d
}
