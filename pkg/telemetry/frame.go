// Package telemetry carries the voltmeter state from the firmware to the host
// as newline-terminated text lines.
//
// Line format: micros,raw,output,millivolts,DDDD
// where DDDD is the display buffer from the most significant digit down.
// Example: 1234567,2048,440,1650,1650
package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/sampling"
	"github.com/itohio/golpf/pkg/scale"
	"github.com/pkg/errors"
)

// ErrFormat is returned for lines that cannot be parsed.
var ErrFormat = errors.New("invalid telemetry line")

// Frame is one telemetry record.
type Frame struct {
	Timestamp  time.Time
	Raw        uint16         // Raw ADC sample
	Output     uint16         // Analog output value (0-1023)
	Millivolts uint16         // Raw sample in millivolts
	Digits     display.Digits // Display buffer at the time of the frame
}

// FrameOf builds a frame from a sampling snapshot and the display buffer.
func FrameOf(ts time.Time, s sampling.Snapshot, d display.Digits) Frame {
	return Frame{
		Timestamp:  ts,
		Raw:        s.Raw,
		Output:     s.Output,
		Millivolts: uint16(s.Millivolts),
		Digits:     d,
	}
}

// AppendLine appends the encoded frame and a trailing newline to dst.
func AppendLine(dst []byte, f Frame) []byte {
	dst = strconv.AppendInt(dst, f.Timestamp.UnixMicro(), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Raw), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Output), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Millivolts), 10)
	dst = append(dst, ',')
	for i := display.Size - 1; i >= 0; i-- {
		dst = append(dst, '0'+f.Digits[i]%10)
	}
	return append(dst, '\n')
}

// Parse parses one line (without the trailing newline).
func Parse(line string) (Frame, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 5 {
		return Frame{}, errors.Wrapf(ErrFormat, "expected 5 comma-separated values, got %d", len(parts))
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Frame{}, errors.Wrapf(ErrFormat, "timestamp: %v", err)
	}

	raw, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return Frame{}, errors.Wrapf(ErrFormat, "raw: %v", err)
	}

	output, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return Frame{}, errors.Wrapf(ErrFormat, "output: %v", err)
	}
	if output > scale.OutputMax {
		return Frame{}, errors.Wrapf(ErrFormat, "output out of range: %d (max %d)", output, scale.OutputMax)
	}

	mv, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return Frame{}, errors.Wrapf(ErrFormat, "millivolts: %v", err)
	}

	digits := parts[4]
	if len(digits) != display.Size {
		return Frame{}, errors.Wrapf(ErrFormat, "expected %d digits, got %d", display.Size, len(digits))
	}
	var d display.Digits
	for i := 0; i < display.Size; i++ {
		c := digits[display.Size-1-i]
		if c < '0' || c > '9' {
			return Frame{}, errors.Wrapf(ErrFormat, "digit %q", c)
		}
		d[i] = c - '0'
	}

	return Frame{
		Timestamp:  time.UnixMicro(micros),
		Raw:        uint16(raw),
		Output:     uint16(output),
		Millivolts: uint16(mv),
		Digits:     d,
	}, nil
}
