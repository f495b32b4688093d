package scope

import (
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/sample"
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// plot is the drawing area and axis ranges of one refresh.
type plot struct {
	x, y, w, h float32
	yMin, yMax float64
	xMin, xMax time.Time
}

func (p plot) pos(ts time.Time, v float64) fyne.Position {
	span := p.xMax.Sub(p.xMin).Seconds()
	x := p.x
	if span > 0 {
		x += float32(ts.Sub(p.xMin).Seconds()/span) * p.w
	}
	y := p.y + p.h - float32((v-p.yMin)/(p.yMax-p.yMin))*p.h
	return fyne.NewPos(x, y)
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.grid.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	samples := make([]sample.Sample, len(r.scope.displaySamples))
	copy(samples, r.scope.displaySamples)
	stats := r.scope.stats
	p := plot{
		yMin: r.scope.yMin,
		yMax: r.scope.yMax,
		xMin: r.scope.xMin,
		xMax: r.scope.xMax,
	}
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.grid}

	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(40.0)

	p.x = marginLeft
	p.y = marginTop
	p.w = size.Width - marginLeft - marginRight
	p.h = size.Height - marginTop - marginBottom

	r.drawGrid(p)
	r.drawTrace(p, samples, func(s sample.Sample) float64 { return s.Input }, inputColor, 1.5)
	r.drawTrace(p, samples, func(s sample.Sample) float64 { return s.Output }, outputColor, 2.5)
	r.drawLegend(p, stats)
}

// drawGrid draws the oscilloscope-style grid.
func (r *scopeRenderer) drawGrid(p plot) {
	numHLines := 8
	for i := 0; i < numHLines+1; i++ {
		y := p.y + float32(i)*p.h/float32(numHLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(p.x, y)
		line.Position2 = fyne.NewPos(p.x+p.w, y)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		value := p.yMax - float64(i)*(p.yMax-p.yMin)/float64(numHLines)
		text := canvas.NewText(formatVoltage(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	numVLines := 10
	span := p.xMax.Sub(p.xMin)
	for i := 0; i < numVLines+1; i++ {
		x := p.x + float32(i)*p.w/float32(numVLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, p.y)
		line.Position2 = fyne.NewPos(x, p.y+p.h)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		offset := span * time.Duration(i) / time.Duration(numVLines)
		text := canvas.NewText(formatTime(offset), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+5))
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws one value of the samples as connected segments.
func (r *scopeRenderer) drawTrace(p plot, samples []sample.Sample, value func(sample.Sample) float64, c color.Color, width float32) {
	if len(samples) < 2 {
		return
	}

	prev := p.pos(samples[0].Timestamp, value(samples[0]))
	for _, s := range samples[1:] {
		cur := p.pos(s.Timestamp, value(s))
		line := canvas.NewLine(c)
		line.Position1 = prev
		line.Position2 = cur
		line.StrokeWidth = width
		r.objects = append(r.objects, line)
		prev = cur
	}
}

// drawLegend draws the trace names with their averages and ripple.
func (r *scopeRenderer) drawLegend(p plot, st history.Stats) {
	if st.Count == 0 {
		return
	}

	in := canvas.NewText("in "+formatVoltage(st.InputAvg)+" ±"+formatVoltage(st.InputRipple()/2), inputColor)
	in.TextSize = 11
	in.Move(fyne.NewPos(p.x+10, p.y+5))

	out := canvas.NewText("out "+formatVoltage(st.OutputAvg)+" ±"+formatVoltage(st.OutputRipple()/2), outputColor)
	out.TextSize = 11
	out.Move(fyne.NewPos(p.x+10, p.y+20))

	r.objects = append(r.objects, in, out)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func formatVoltage(v float64) string {
	if v > -0.0005 && v < 0.0005 {
		return "0.000V"
	}
	return strconv.FormatFloat(v, 'f', 3, 64) + "V"
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + "s"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64) + "s"
}
