//go:build !tinygo

package telemetry

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the firmware UART.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the frames channel buffer.
	DefaultBufferSize = 100
)

var (
	ErrConnected    = errors.New("already connected")
	ErrNotConnected = errors.New("not connected")
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial reads telemetry from the firmware over a serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	frames    chan Frame
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a serial telemetry device for port.
func NewSerial(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		frames:   make(chan Frame, bufSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list serial ports")
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port and starts reading frames.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrConnected
	}

	port, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return errors.Wrapf(err, "failed to open serial port %s", d.port)
	}

	d.conn = port
	d.connected = true

	go d.readFrames(port)

	return nil
}

// Close closes the connection and stops reading frames.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Warn().Err(err).Str("port", d.port).Msg("error closing serial port")
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// Frames returns the channel of parsed frames. It is closed once the reader
// stops after Close or a read error.
func (d *Serial) Frames() <-chan Frame {
	return d.frames
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

func (d *Serial) readFrames(r io.Reader) {
	defer close(d.frames)
	readLines(d.ctx, r, d.frames, d.port)
}

// readLines parses lines from r into out until ctx is done or r fails.
func readLines(ctx context.Context, r io.Reader, out chan<- Frame, source string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		frame, err := Parse(line)
		if err != nil {
			log.Debug().Err(err).Str("source", source).Str("line", line).Msg("failed to parse telemetry")
			continue
		}

		select {
		case out <- frame:
		case <-ctx.Done():
			return
		default:
			log.Warn().Str("source", source).Msg("frames channel full, dropping frame")
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) {
		log.Error().Err(err).Str("source", source).Msg("error reading telemetry")
	}
}
