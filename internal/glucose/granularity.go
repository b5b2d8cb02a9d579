package glucose

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidGranularity is returned for anything other than day, hour or minute.
var ErrInvalidGranularity = errors.New("invalid granularity")

// Granularity is the time step of a series and the axis policy used to draw it.
type Granularity string

const (
	GranularityDay    Granularity = "day"
	GranularityHour   Granularity = "hour"
	GranularityMinute Granularity = "minute"
)

// DefaultGranularity is used when no granularity is given.
const DefaultGranularity = GranularityDay

// AxisPolicy holds everything that depends on the granularity.
type AxisPolicy struct {
	Step         time.Duration // distance between two readings
	TickInterval time.Duration // distance between two x-axis ticks
	LabelLayout  string        // time.Format layout for tick labels
	WindowLimit  int           // max points drawn, 0 = all
	XLabel       string
	RotateLabels bool
}

// minuteWindow is roughly the first hour of minute-resolution data.
const minuteWindow = 61

var policies = map[Granularity]AxisPolicy{
	GranularityDay: {
		Step:         24 * time.Hour,
		TickInterval: 24 * time.Hour,
		LabelLayout:  "2006-01-02",
		XLabel:       "Date",
		RotateLabels: true,
	},
	GranularityHour: {
		Step:         time.Hour,
		TickInterval: time.Hour,
		LabelLayout:  "15:04",
		XLabel:       "Time",
		RotateLabels: true,
	},
	GranularityMinute: {
		Step:         time.Minute,
		TickInterval: time.Hour,
		LabelLayout:  "15:04",
		WindowLimit:  minuteWindow,
		XLabel:       "Time",
		RotateLabels: true,
	},
}

// Granularities lists the recognized values in display order.
func Granularities() []Granularity {
	return []Granularity{GranularityDay, GranularityHour, GranularityMinute}
}

// ParseGranularity accepts "day", "hour" or "minute" (case-insensitive).
// An empty string yields DefaultGranularity.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultGranularity, nil
	}
	g := Granularity(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q (expected day, hour or minute)", ErrInvalidGranularity, s)
	}
	return g, nil
}

func (g Granularity) Valid() bool {
	_, ok := policies[g]
	return ok
}

// Policy returns the axis policy for g.
func (g Granularity) Policy() (AxisPolicy, error) {
	p, ok := policies[g]
	if !ok {
		return AxisPolicy{}, fmt.Errorf("%w: %q", ErrInvalidGranularity, string(g))
	}
	return p, nil
}

// Title is the capitalized name shown in chart titles.
func (g Granularity) Title() string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

func (g Granularity) String() string {
	return string(g)
}
