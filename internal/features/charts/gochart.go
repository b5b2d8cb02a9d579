package charts

import (
	"fmt"
	"io"
	"time"

	"glucose-chart/internal/glucose"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GoChartRenderer builds the chart with go-chart from the same frame as the canvas backend.
type GoChartRenderer struct {
	style Style
}

func NewGoChartRenderer(style Style) *GoChartRenderer {
	return &GoChartRenderer{style: style.withDefaults()}
}

func (r *GoChartRenderer) Render(w io.Writer, s glucose.Series, g glucose.Granularity) error {
	f, err := prepare(s, g)
	if err != nil {
		return err
	}
	c, err := ParseColor(r.style.LineColor)
	if err != nil {
		return err
	}
	lineColor := drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(r.style.Alpha * 255)}
	gridStyle := chart.Style{
		StrokeColor: drawing.Color{R: gridColor.R, G: gridColor.G, B: gridColor.B, A: 255},
		StrokeWidth: px(0.8),
	}

	xTicks, xGrid := timeTicks(f)

	var yTicks []chart.Tick
	var yGrid []chart.GridLine
	for _, v := range f.yTicks() {
		yTicks = append(yTicks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
		yGrid = append(yGrid, chart.GridLine{Value: v})
	}

	xStyle := chart.Style{}
	if f.policy.RotateLabels {
		xStyle.TextRotationDegrees = 45
	}

	ch := chart.Chart{
		Title:  f.title,
		Width:  r.style.Width,
		Height: r.style.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 40, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           f.policy.XLabel,
			Style:          xStyle,
			Ticks:          xTicks,
			GridLines:      xGrid,
			GridMajorStyle: gridStyle,
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(f.xMin),
				Max: chart.TimeToFloat64(f.xMax),
			},
		},
		YAxis: chart.YAxis{
			Name:           yLabel,
			Ticks:          yTicks,
			GridLines:      yGrid,
			GridMajorStyle: gridStyle,
			Range:          &chart.ContinuousRange{Min: f.yMin, Max: f.yMax},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Glucose",
				XValues: append([]time.Time(nil), f.visible.Timestamps...),
				YValues: f.visible.Floats(),
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: px(r.style.LineWidth),
					DotColor:    lineColor,
					DotWidth:    px(r.style.MarkerSize) / 2,
				},
			},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// timeTicks converts the frame ticks for go-chart. go-chart derives the axis
// range from explicit ticks and ignores XAxis.Range, so unlabeled ticks at
// xMin and xMax keep the whole window on the plot.
func timeTicks(f *frame) ([]chart.Tick, []chart.GridLine) {
	lo, hi := chart.TimeToFloat64(f.xMin), chart.TimeToFloat64(f.xMax)

	ticks := make([]chart.Tick, 0, len(f.ticks)+2)
	grid := make([]chart.GridLine, 0, len(f.ticks))
	ticks = append(ticks, chart.Tick{Value: lo})
	for _, t := range f.ticks {
		v := chart.TimeToFloat64(t.At)
		if v < lo || v > hi {
			continue
		}
		grid = append(grid, chart.GridLine{Value: v})
		switch v {
		case lo:
			ticks[0].Label = t.Label
			continue
		case hi:
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: t.Label})
	}

	last := chart.Tick{Value: hi}
	for _, t := range f.ticks {
		if chart.TimeToFloat64(t.At) == hi {
			last.Label = t.Label
		}
	}
	return append(ticks, last), grid
}
