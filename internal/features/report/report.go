package report

import (
	"context"
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"glucose-chart/internal/features/charts"
	"glucose-chart/internal/glucose"
	"glucose-chart/internal/infra/config"
	"glucose-chart/internal/infra/fs"
	logging "glucose-chart/internal/infra/log"

	"go.uber.org/zap"
)

// Result is one generated and rendered chart.
type Result struct {
	Path        string
	Granularity glucose.Granularity
	Series      glucose.Series
	Summary     glucose.Summary
	Start       time.Time
	End         time.Time
}

// Override replaces parts of the configured series for a single build.
// Zero fields keep the configured value.
type Override struct {
	Granularity glucose.Granularity
	Start       time.Time
	End         time.Time
}

// Builder turns configuration into charts. It owns the random source so that
// repeated builds with a fixed seed stay reproducible as a sequence.
// Build is safe for concurrent use.
type Builder struct {
	mu       sync.Mutex
	cfg      *config.Config
	renderer charts.Renderer
	rng      *rand.Rand
	now      func() time.Time
}

// NewBuilder validates the chart settings and prepares the renderer.
func NewBuilder(cfg *config.Config) (*Builder, error) {
	renderer, err := charts.New(cfg.Chart.Renderer, StyleFromConfig(cfg.Chart))
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:      cfg,
		renderer: renderer,
		rng:      glucose.NewRand(cfg.Series.Seed),
		now:      time.Now,
	}, nil
}

// StyleFromConfig maps the chart section onto renderer options.
func StyleFromConfig(c config.ChartConfig) charts.Style {
	return charts.Style{
		Width:      c.Width,
		Height:     c.Height,
		LineColor:  c.LineColor,
		MarkerSize: c.MarkerSize,
		LineWidth:  c.LineWidth,
		Alpha:      c.Alpha,
		FontPaths:  c.FontPaths,
	}
}

// Build generates a series, renders it and saves the PNG under chart.output_dir.
func (b *Builder) Build(ctx context.Context, o Override) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	startedAt := b.now()

	g := o.Granularity
	if g == "" {
		var err error
		g, err = glucose.ParseGranularity(b.cfg.Series.Granularity)
		if err != nil {
			return nil, err
		}
	}
	start, end := o.Start, o.End
	if start.IsZero() {
		t, err := b.cfg.Series.StartTime()
		if err != nil {
			return nil, fmt.Errorf("series.start: %w", err)
		}
		start = t
	}
	if end.IsZero() {
		t, err := b.cfg.Series.EndTime()
		if err != nil {
			return nil, fmt.Errorf("series.end: %w", err)
		}
		end = t
	}

	series, err := glucose.Generate(b.rng, start, end, b.cfg.Series.MinValue, b.cfg.Series.MaxValue, g)
	if err != nil {
		return nil, fmt.Errorf("failed to generate series: %w", err)
	}
	summary, err := glucose.Summarize(series)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize series: %w", err)
	}

	name := fs.ChartFileName(g.String(), startedAt.UTC().Format("20060102_150405.000"))
	path, err := fs.SaveChart(b.cfg.Chart.OutputDir, name, func(w io.Writer) error {
		return b.renderer.Render(w, series, g)
	})
	if err != nil {
		return nil, err
	}

	logging.LogSuccess("Glucose chart generated",
		zap.String("path", path),
		zap.String("granularity", g.String()),
		zap.Int("points", series.Len()),
		zap.Float64("mean", summary.Mean),
		zap.Int64("duration_ms", time.Since(startedAt).Milliseconds()))

	return &Result{
		Path:        path,
		Granularity: g,
		Series:      series,
		Summary:     summary,
		Start:       start,
		End:         end,
	}, nil
}

// Caption formats a Telegram HTML caption for r.
func Caption(r *Result) string {
	p, _ := r.Granularity.Policy()
	layout := "2006-01-02 15:04"
	if r.Granularity == glucose.GranularityDay {
		layout = "2006-01-02"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(charts.Title(r.Granularity)))
	fmt.Fprintf(&b, "%s → %s (%d readings)\n",
		r.Start.Format(layout), r.End.Format(layout), r.Series.Len())
	fmt.Fprintf(&b, "Latest: <b>%d</b> mg/dL\n", r.Summary.Latest)
	fmt.Fprintf(&b, "Mean: %.1f ± %.1f mg/dL, median %.0f\n", r.Summary.Mean, r.Summary.StdDev, r.Summary.Median)
	fmt.Fprintf(&b, "Range: %d–%d mg/dL\n", r.Summary.Min, r.Summary.Max)
	fmt.Fprintf(&b, "Time in range (%d–%d): %.0f%%", glucose.TargetLow, glucose.TargetHigh, r.Summary.TimeInRange)
	if p.WindowLimit > 0 && r.Series.Len() > p.WindowLimit {
		fmt.Fprintf(&b, "\n<i>Chart shows the first %d readings</i>", p.WindowLimit)
	}
	return b.String()
}
