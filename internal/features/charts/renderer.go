package charts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"glucose-chart/internal/glucose"
)

// ErrUnknownRenderer is returned by New for an unrecognized backend name.
var ErrUnknownRenderer = errors.New("unknown renderer")

// Backend names accepted by New.
const (
	BackendCanvas  = "canvas"
	BackendGoChart = "gochart"
)

// Renderer draws a glucose series as a PNG line chart.
type Renderer interface {
	Render(w io.Writer, s glucose.Series, g glucose.Granularity) error
}

// New returns the renderer for kind. An empty kind selects the canvas backend.
func New(kind string, style Style) (Renderer, error) {
	style = style.withDefaults()
	if _, err := ParseColor(style.LineColor); err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", BackendCanvas:
		return NewCanvasRenderer(style), nil
	case BackendGoChart:
		return NewGoChartRenderer(style), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownRenderer, kind, BackendCanvas, BackendGoChart)
	}
}
