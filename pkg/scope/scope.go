package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/sample"
)

var (
	inputColor  = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	outputColor = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	gridColor   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// ScopeWidget is a custom Fyne widget that displays the raw input and the
// filtered output as oscilloscope-style traces.
type ScopeWidget struct {
	widget.BaseWidget

	cfg *config.Config

	// Data (protected by mu)
	mu             sync.RWMutex
	displaySamples []sample.Sample // downsampled, buffer reused
	stats          history.Stats

	// Auto-scaling
	yMin, yMax float64
	xMin, xMax time.Time

	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config) *ScopeWidget {
	maxPoints := cfg.Display.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 1000
	}
	s := &ScopeWidget{
		cfg:              cfg,
		displaySamples:   make([]sample.Sample, 0, maxPoints),
		maxDisplayPoints: maxPoints,
	}
	s.ExtendBaseWidget(s)
	s.updateAutoScale()
	s.Refresh()
	return s
}

// UpdateData updates the widget with a new trace window.
// This should be called from the recorder callback using fyne.Do().
func (s *ScopeWidget) UpdateData(samples []sample.Sample, stats history.Stats) {
	s.mu.Lock()
	s.displaySamples = sample.DownsampleSamples(s.displaySamples, samples, s.maxDisplayPoints)
	s.stats = stats
	s.updateAutoScale()
	s.mu.Unlock()

	// Refresh outside the lock, the renderer takes a read lock
	s.Refresh()
}

// SetMaxPoints changes how many points are drawn per trace. It applies from
// the next UpdateData.
func (s *ScopeWidget) SetMaxPoints(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxDisplayPoints = n
}

// MaxPoints returns the number of points drawn per trace.
func (s *ScopeWidget) MaxPoints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxDisplayPoints
}

// Range returns the current axis ranges.
func (s *ScopeWidget) Range() (yMin, yMax float64, xMin, xMax time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.yMin, s.yMax, s.xMin, s.xMax
}

// updateAutoScale calculates axis ranges from the display samples. Caller holds mu.
func (s *ScopeWidget) updateAutoScale() {
	window := time.Duration(s.cfg.Display.WindowSeconds * float64(time.Second))

	if len(s.displaySamples) == 0 {
		s.yMin = 0.0
		s.yMax = s.cfg.Device.OutputVRef
		if s.yMax <= 0 {
			s.yMax = 1.0
		}
		s.xMin = time.Now()
		s.xMax = s.xMin.Add(window)
		return
	}

	s.yMin = min(s.displaySamples[0].Input, s.displaySamples[0].Output)
	s.yMax = max(s.displaySamples[0].Input, s.displaySamples[0].Output)
	for _, smp := range s.displaySamples {
		s.yMin = min(s.yMin, smp.Input, smp.Output)
		s.yMax = max(s.yMax, smp.Input, smp.Output)
	}

	// Add 10% margin
	span := s.yMax - s.yMin
	if span == 0 {
		span = 1.0
	}
	margin := span * 0.1
	s.yMin -= margin
	s.yMax += margin

	s.xMin = s.displaySamples[0].Timestamp
	s.xMax = s.displaySamples[len(s.displaySamples)-1].Timestamp
	if s.xMax.Sub(s.xMin) < window {
		s.xMax = s.xMin.Add(window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:   s,
		grid:    grid,
		objects: []fyne.CanvasObject{grid},
	}
}
