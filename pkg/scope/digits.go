package scope

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/golpf/pkg/display"
)

var (
	segmentOn  = color.RGBA{R: 255, G: 40, B: 20, A: 255}
	segmentOff = color.RGBA{R: 45, G: 12, B: 10, A: 255}
)

// segment geometry in units of the digit cell: a cell is 1 wide and 2 tall
// with a thickness of segThick.
const segThick = 0.16

type rect struct{ x, y, w, h float32 }

// segmentRects returns the rectangles of segments a..g and dp inside a cell
// of the given size, indexed by bit position.
func segmentRects(cell fyne.Size) [8]rect {
	w := cell.Width * 0.8 // leave room for the decimal point
	h := cell.Height
	t := segThick * w
	half := h / 2

	return [8]rect{
		{t, 0, w - 2*t, t},                   // a
		{w - t, t, t, half - 1.5*t},          // b
		{w - t, half + t/2, t, half - 1.5*t}, // c
		{t, h - t, w - 2*t, t},               // d
		{0, half + t/2, t, half - 1.5*t},     // e
		{0, t, t, half - 1.5*t},              // f
		{t, half - t/2, w - 2*t, t},          // g
		{w + t/2, h - t, t, t},               // dp
	}
}

// DigitsWidget renders display.Digits as a 4-digit seven-segment display.
// Digit 3 is drawn leftmost, as on the board.
type DigitsWidget struct {
	widget.BaseWidget

	mu     sync.RWMutex
	digits display.Digits
	dp     int // position of the lit decimal point, -1 for none
}

// NewDigits creates a DigitsWidget showing the power-on sentinel.
func NewDigits() *DigitsWidget {
	d := &DigitsWidget{dp: -1}
	d.digits = display.NewBuffer().Load()
	d.ExtendBaseWidget(d)
	return d
}

// SetDigits updates the shown digits. Call through fyne.Do from other goroutines.
func (d *DigitsWidget) SetDigits(digits display.Digits) {
	d.mu.Lock()
	changed := d.digits != digits
	d.digits = digits
	d.mu.Unlock()

	if changed {
		d.Refresh()
	}
}

// SetDecimalPoint lights the decimal point after the given digit (0 = ones);
// a negative value turns it off.
func (d *DigitsWidget) SetDecimalPoint(position int) {
	d.mu.Lock()
	d.dp = position
	d.mu.Unlock()
	d.Refresh()
}

// Digits returns the digits currently shown.
func (d *DigitsWidget) Digits() display.Digits {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.digits
}

// patterns returns the segment bits per screen position, leftmost first.
func (d *DigitsWidget) patterns() [display.Size]uint8 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var p [display.Size]uint8
	for i := 0; i < display.Size; i++ {
		pos := display.Size - 1 - i
		p[i] = display.Segments(d.digits[pos], pos == d.dp, false)
	}
	return p
}

// CreateRenderer creates the widget renderer.
func (d *DigitsWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &digitsRenderer{
		digits: d,
		bg:     canvas.NewRectangle(color.Black),
	}
	r.objects = append(r.objects, r.bg)
	for i := range r.segments {
		for j := range r.segments[i] {
			s := canvas.NewRectangle(segmentOff)
			r.segments[i][j] = s
			r.objects = append(r.objects, s)
		}
	}
	r.Refresh()
	return r
}

type digitsRenderer struct {
	digits   *DigitsWidget
	bg       *canvas.Rectangle
	segments [display.Size][8]*canvas.Rectangle
	objects  []fyne.CanvasObject
}

func (r *digitsRenderer) MinSize() fyne.Size {
	return fyne.NewSize(display.Size*40, 70)
}

func (r *digitsRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	pad := float32(8)
	cellW := (size.Width - pad*(display.Size+1)) / display.Size
	cell := fyne.NewSize(cellW, size.Height-2*pad)
	rects := segmentRects(cell)
	for i := range r.segments {
		x0 := pad + float32(i)*(cellW+pad)
		for j, s := range r.segments[i] {
			s.Move(fyne.NewPos(x0+rects[j].x, pad+rects[j].y))
			s.Resize(fyne.NewSize(rects[j].w, rects[j].h))
		}
	}
}

func (r *digitsRenderer) Refresh() {
	p := r.digits.patterns()
	for i := range r.segments {
		for j, s := range r.segments[i] {
			if p[i]&(1<<j) != 0 {
				s.FillColor = segmentOn
			} else {
				s.FillColor = segmentOff
			}
			s.Refresh()
		}
	}
}

func (r *digitsRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *digitsRenderer) Destroy() {}
