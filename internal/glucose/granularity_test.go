package glucose

import (
	"errors"
	"testing"
	"time"
)

func TestParseGranularity(t *testing.T) {
	cases := []struct {
		in      string
		want    Granularity
		wantErr bool
	}{
		{"day", GranularityDay, false},
		{"hour", GranularityHour, false},
		{"minute", GranularityMinute, false},
		{" Minute ", GranularityMinute, false},
		{"", GranularityDay, false},
		{"week", "", true},
		{"minutes", "", true},
	}
	for _, tc := range cases {
		got, err := ParseGranularity(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidGranularity) {
				t.Errorf("%q: expected ErrInvalidGranularity, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestPolicy(t *testing.T) {
	cases := []struct {
		g      Granularity
		step   time.Duration
		tick   time.Duration
		layout string
		window int
		xlabel string
	}{
		{GranularityDay, 24 * time.Hour, 24 * time.Hour, "2006-01-02", 0, "Date"},
		{GranularityHour, time.Hour, time.Hour, "15:04", 0, "Time"},
		{GranularityMinute, time.Minute, time.Hour, "15:04", 61, "Time"},
	}
	for _, tc := range cases {
		p, err := tc.g.Policy()
		if err != nil {
			t.Fatalf("%s: Policy failed: %v", tc.g, err)
		}
		if p.Step != tc.step || p.TickInterval != tc.tick {
			t.Errorf("%s: step/tick %s/%s, expected %s/%s", tc.g, p.Step, p.TickInterval, tc.step, tc.tick)
		}
		if p.LabelLayout != tc.layout {
			t.Errorf("%s: layout %q, expected %q", tc.g, p.LabelLayout, tc.layout)
		}
		if p.WindowLimit != tc.window {
			t.Errorf("%s: window %d, expected %d", tc.g, p.WindowLimit, tc.window)
		}
		if p.XLabel != tc.xlabel {
			t.Errorf("%s: x label %q, expected %q", tc.g, p.XLabel, tc.xlabel)
		}
		if !p.RotateLabels {
			t.Errorf("%s: expected rotated labels", tc.g)
		}
	}

	if _, err := Granularity("second").Policy(); !errors.Is(err, ErrInvalidGranularity) {
		t.Errorf("expected ErrInvalidGranularity for unknown granularity, got %v", err)
	}
}

func TestGranularityTitle(t *testing.T) {
	if got := GranularityMinute.Title(); got != "Minute" {
		t.Errorf("expected Minute, got %s", got)
	}
	if got := GranularityDay.Title(); got != "Day" {
		t.Errorf("expected Day, got %s", got)
	}
}
