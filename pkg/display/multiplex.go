package display

// DigitDisplay lights exactly one digit position at a time.
type DigitDisplay interface {
	ShowDigit(position, value uint8, decimalPoint, blank bool)
}

// Multiplexer refreshes one digit position per Step, cycling through all of
// them so that persistence of vision shows the whole number. It must be driven
// from a single trigger; Step is not safe for concurrent use with itself.
type Multiplexer struct {
	out    DigitDisplay
	digits *Buffer
	cursor uint8
}

// NewMultiplexer creates a multiplexer reading from digits and driving out.
func NewMultiplexer(out DigitDisplay, digits *Buffer) *Multiplexer {
	return &Multiplexer{
		out:    out,
		digits: digits,
	}
}

// Step shows the digit for the current position and advances the cursor.
// Position 0 shows the most significant digit.
func (m *Multiplexer) Step() {
	pos := m.cursor
	m.out.ShowDigit(pos, m.digits.Digit(Size-1-int(pos)), false, false)
	if pos == Size-1 {
		m.cursor = 0
	} else {
		m.cursor = pos + 1
	}
}

// Cursor returns the position the next Step will drive.
func (m *Multiplexer) Cursor() uint8 {
	return m.cursor
}
