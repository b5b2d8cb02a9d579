package charts

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrInvalidColor is returned by ParseColor for unknown color specs.
var ErrInvalidColor = errors.New("invalid color")

// pixelsPerInch converts figure units and points to pixels.
// A 12x6 figure is 1200x600 px.
const pixelsPerInch = 100.0

// Style holds the cosmetic options of a chart.
type Style struct {
	Width      int     // px
	Height     int     // px
	LineColor  string  // matplotlib letter, CSS name or #rrggbb
	MarkerSize float64 // points
	LineWidth  float64 // points
	Alpha      float64 // 0..1, applied to line and markers
	FontPaths  []string
}

// DefaultStyle mirrors the classic 12x6 red line chart.
func DefaultStyle() Style {
	return Style{
		Width:      1200,
		Height:     600,
		LineColor:  "r",
		MarkerSize: 4,
		LineWidth:  1.2,
		Alpha:      0.7,
	}
}

// withDefaults fills zero fields from DefaultStyle.
func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.LineColor == "" {
		s.LineColor = d.LineColor
	}
	if s.MarkerSize <= 0 {
		s.MarkerSize = d.MarkerSize
	}
	if s.LineWidth <= 0 {
		s.LineWidth = d.LineWidth
	}
	if s.Alpha <= 0 || s.Alpha > 1 {
		s.Alpha = d.Alpha
	}
	return s
}

// px converts typographic points to pixels.
func px(points float64) float64 {
	return points * pixelsPerInch / 72.0
}

var namedColors = map[string]color.RGBA{
	// matplotlib single-letter colors
	"b": {0, 0, 255, 255},
	"g": {0, 128, 0, 255},
	"r": {255, 0, 0, 255},
	"c": {0, 191, 191, 255},
	"m": {191, 0, 191, 255},
	"y": {191, 191, 0, 255},
	"k": {0, 0, 0, 255},
	"w": {255, 255, 255, 255},

	"red":    {255, 0, 0, 255},
	"green":  {0, 128, 0, 255},
	"blue":   {0, 0, 255, 255},
	"black":  {0, 0, 0, 255},
	"white":  {255, 255, 255, 255},
	"orange": {255, 165, 0, 255},
	"purple": {128, 0, 128, 255},
	"gray":   {128, 128, 128, 255},
	"grey":   {128, 128, 128, 255},
}

// ParseColor resolves a color spec to an opaque RGBA.
func ParseColor(spec string) (color.RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 || strings.Trim(hex, "0123456789abcdef") != "" {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, spec)
	}
	c := drawing.ColorFromHex(hex)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
}
