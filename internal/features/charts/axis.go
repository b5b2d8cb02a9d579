package charts

import (
	"errors"
	"fmt"
	"math"
	"time"

	"glucose-chart/internal/glucose"
)

// ErrEmptySeries is returned when there is nothing to draw.
var ErrEmptySeries = errors.New("empty or mismatched series")

const yLabel = "Glucose Level (mg/dL)"

// Tick is one labeled position on the time axis.
type Tick struct {
	At    time.Time
	Label string
}

// Title returns the chart title for g.
func Title(g glucose.Granularity) string {
	return fmt.Sprintf("Glucose Levels Over Time (%s)", g.Title())
}

// Ticks places one tick per policy interval, aligned to midnight for daily
// intervals and to the hour otherwise, between the first and last timestamp.
func Ticks(s glucose.Series, p glucose.AxisPolicy) []Tick {
	if s.Len() == 0 || p.TickInterval <= 0 {
		return nil
	}
	first := s.Timestamps[0]
	last := s.Timestamps[s.Len()-1]

	var ticks []Tick
	for t := alignTick(first, p.TickInterval); !t.After(last); t = t.Add(p.TickInterval) {
		ticks = append(ticks, Tick{At: t, Label: t.Format(p.LabelLayout)})
	}
	if len(ticks) == 0 {
		// span shorter than one interval and not crossing a boundary
		ticks = append(ticks, Tick{At: first, Label: first.Format(p.LabelLayout)})
	}
	return ticks
}

func alignTick(t time.Time, interval time.Duration) time.Time {
	var a time.Time
	switch {
	case interval >= 24*time.Hour:
		a = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case interval >= time.Hour:
		a = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	default:
		a = t.Truncate(interval)
	}
	if a.Before(t) {
		a = a.Add(interval)
	}
	return a
}

// frame is everything a backend needs to draw one chart.
type frame struct {
	policy  glucose.AxisPolicy
	visible glucose.Series
	ticks   []Tick
	title   string
	xMin    time.Time
	xMax    time.Time
	yMin    float64
	yMax    float64
	yStep   float64
	summary glucose.Summary
}

func prepare(s glucose.Series, g glucose.Granularity) (*frame, error) {
	if s.Len() == 0 || len(s.Values) != len(s.Timestamps) {
		return nil, ErrEmptySeries
	}
	p, err := g.Policy()
	if err != nil {
		return nil, err
	}

	visible := s.Window(p.WindowLimit)
	f := &frame{
		policy:  p,
		visible: visible,
		ticks:   Ticks(visible, p),
		title:   Title(g),
		xMin:    visible.Timestamps[0],
		xMax:    visible.Timestamps[visible.Len()-1],
	}
	if !f.xMax.After(f.xMin) {
		f.xMax = f.xMin.Add(p.Step)
	}

	lo, hi := visible.Values[0], visible.Values[0]
	for _, v := range visible.Values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	f.yMin, f.yMax, f.yStep = niceRange(float64(lo), float64(hi))

	f.summary, err = glucose.Summarize(visible)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize series: %w", err)
	}
	return f, nil
}

// niceRange pads [lo, hi] outward to a round step with at most 8 intervals.
func niceRange(lo, hi float64) (float64, float64, float64) {
	span := hi - lo
	step := 5.0
	for _, candidate := range []float64{5, 10, 20, 25, 50, 100, 200, 500} {
		step = candidate
		if span/candidate <= 8 {
			break
		}
	}
	yMin := math.Floor(lo/step)*step - step
	yMax := math.Ceil(hi/step)*step + step
	if yMin < 0 && lo >= 0 {
		yMin = 0
	}
	return yMin, yMax, step
}

func (f *frame) yTicks() []float64 {
	var out []float64
	for v := f.yMin; v <= f.yMax+f.yStep/2; v += f.yStep {
		out = append(out, v)
	}
	return out
}
