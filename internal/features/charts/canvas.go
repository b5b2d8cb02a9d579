package charts

import (
	"fmt"
	"image/color"
	"io"
	"sync"

	"glucose-chart/internal/glucose"

	"github.com/fogleman/gg"
)

const (
	titleFontSize  = 20.0
	headerFontSize = 13.0
	labelFontSize  = 14.0
	tickFontSize   = 11.0

	tickLength  = 6.0
	tickPadding = 4.0
)

var (
	gridColor  = color.RGBA{176, 176, 176, 255}
	axisColor  = color.RGBA{0, 0, 0, 255}
	textColor  = color.RGBA{34, 34, 34, 255}
	mutedColor = color.RGBA{110, 110, 110, 255}
)

// CanvasRenderer draws the chart directly on a gg context.
// Render is safe for concurrent use; calls are serialized because the cached
// font faces keep per-face glyph state.
type CanvasRenderer struct {
	mu    sync.Mutex
	style Style
	fonts *fontSet
}

func NewCanvasRenderer(style Style) *CanvasRenderer {
	style = style.withDefaults()
	return &CanvasRenderer{
		style: style,
		fonts: loadFonts(style.FontPaths),
	}
}

// plotArea is the axes rectangle in pixels.
type plotArea struct {
	left, right, top, bottom float64
}

func (a plotArea) width() float64  { return a.right - a.left }
func (a plotArea) height() float64 { return a.bottom - a.top }

func (r *CanvasRenderer) Render(w io.Writer, s glucose.Series, g glucose.Granularity) error {
	f, err := prepare(s, g)
	if err != nil {
		return err
	}
	lineColor, err := ParseColor(r.style.LineColor)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	width, height := float64(r.style.Width), float64(r.style.Height)
	area := plotArea{
		left:   width * 0.09,
		right:  width * 0.97,
		top:    height * 0.14,
		bottom: height * 0.78,
	}

	dc := gg.NewContext(r.style.Width, r.style.Height)
	dc.SetColor(color.White)
	dc.Clear()

	xOf := func(t float64) float64 {
		span := float64(f.xMax.Sub(f.xMin))
		return area.left + t/span*area.width()
	}
	yOf := func(v float64) float64 {
		return area.bottom - (v-f.yMin)/(f.yMax-f.yMin)*area.height()
	}

	r.drawHeader(dc, f, width)

	// grid
	dc.SetColor(gridColor)
	dc.SetLineWidth(px(0.8))
	for _, v := range f.yTicks() {
		y := yOf(v)
		dc.DrawLine(area.left, y, area.right, y)
		dc.Stroke()
	}
	for _, tick := range f.ticks {
		x := xOf(float64(tick.At.Sub(f.xMin)))
		dc.DrawLine(x, area.top, x, area.bottom)
		dc.Stroke()
	}

	// axes frame
	dc.SetColor(axisColor)
	dc.SetLineWidth(px(0.8))
	dc.DrawRectangle(area.left, area.top, area.width(), area.height())
	dc.Stroke()

	// series
	alpha := r.style.Alpha
	dc.SetRGBA255(int(lineColor.R), int(lineColor.G), int(lineColor.B), int(alpha*255))
	dc.SetLineWidth(px(r.style.LineWidth))
	for i, ts := range f.visible.Timestamps {
		x := xOf(float64(ts.Sub(f.xMin)))
		y := yOf(float64(f.visible.Values[i]))
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	radius := px(r.style.MarkerSize) / 2
	for i, ts := range f.visible.Timestamps {
		dc.DrawCircle(xOf(float64(ts.Sub(f.xMin))), yOf(float64(f.visible.Values[i])), radius)
		dc.Fill()
	}

	// y tick labels
	r.fonts.use(dc, tickFontSize)
	dc.SetColor(textColor)
	for _, v := range f.yTicks() {
		y := yOf(v)
		dc.DrawLine(area.left-tickLength, y, area.left, y)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", v), area.left-tickLength-tickPadding, y, 1, 0.5)
	}

	// x tick labels
	for _, tick := range f.ticks {
		x := xOf(float64(tick.At.Sub(f.xMin)))
		dc.DrawLine(x, area.bottom, x, area.bottom+tickLength)
		dc.Stroke()

		ly := area.bottom + tickLength + tickPadding
		if f.policy.RotateLabels {
			dc.Push()
			dc.RotateAbout(gg.Radians(-45), x, ly)
			dc.DrawStringAnchored(tick.Label, x, ly, 1, 0.5)
			dc.Pop()
		} else {
			dc.DrawStringAnchored(tick.Label, x, ly, 0.5, 1)
		}
	}

	// axis labels
	r.fonts.use(dc, labelFontSize)
	dc.DrawStringAnchored(f.policy.XLabel, area.left+area.width()/2, height*0.96, 0.5, 0)

	dc.Push()
	ylx, yly := width*0.02, area.top+area.height()/2
	dc.RotateAbout(gg.Radians(-90), ylx, yly)
	dc.DrawStringAnchored(yLabel, ylx, yly, 0.5, 1)
	dc.Pop()

	return dc.EncodePNG(w)
}

// drawHeader writes the title and, on the right, the latest and average readings.
func (r *CanvasRenderer) drawHeader(dc *gg.Context, f *frame, width float64) {
	r.fonts.use(dc, titleFontSize)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(f.title, width/2, 12, 0.5, 1)

	r.fonts.use(dc, headerFontSize)
	dc.SetColor(mutedColor)
	header := fmt.Sprintf("Latest %d mg/dL    Average %.1f mg/dL    In range %.0f%%",
		f.summary.Latest, f.summary.Mean, f.summary.TimeInRange)
	dc.DrawStringAnchored(header, width*0.97, 48, 1, 1)
}
