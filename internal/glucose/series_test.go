package glucose

import (
	"errors"
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestGenerate_DayExample(t *testing.T) {
	start := date(2025, 1, 20, 0, 0)
	end := date(2025, 1, 27, 0, 0)

	s, err := Generate(NewRand(1), start, end, 70, 180, GranularityDay)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if s.Len() != 8 {
		t.Fatalf("expected 8 entries, got %d", s.Len())
	}
	for i, ts := range s.Timestamps {
		want := start.AddDate(0, 0, i)
		if !ts.Equal(want) {
			t.Errorf("entry %d: expected %s, got %s", i, want, ts)
		}
	}
}

func TestGenerate_MinuteExample(t *testing.T) {
	start := date(2025, 1, 30, 0, 0)
	end := date(2025, 1, 30, 23, 59)

	s, err := Generate(NewRand(7), start, end, 70, 180, GranularityMinute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if s.Len() != 1440 {
		t.Fatalf("expected 1440 entries, got %d", s.Len())
	}
	if got := s.Timestamps[0].Format("15:04"); got != "00:00" {
		t.Errorf("first timestamp: expected 00:00, got %s", got)
	}
	if got := s.Timestamps[s.Len()-1].Format("15:04"); got != "23:59" {
		t.Errorf("last timestamp: expected 23:59, got %s", got)
	}

	p, _ := GranularityMinute.Policy()
	if w := s.Window(p.WindowLimit); w.Len() != 61 {
		t.Errorf("expected minute window of 61 points, got %d", w.Len())
	}
}

func TestGenerate_Properties(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		g     Granularity
	}{
		{"day uneven", date(2025, 3, 1, 6, 0), date(2025, 3, 9, 5, 0), GranularityDay},
		{"hour", date(2025, 3, 1, 0, 0), date(2025, 3, 2, 12, 30), GranularityHour},
		{"minute", date(2025, 3, 1, 10, 15), date(2025, 3, 1, 13, 0), GranularityMinute},
		{"shorter than step", date(2025, 3, 1, 0, 0), date(2025, 3, 1, 0, 30), GranularityHour},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.g.Policy()
			if err != nil {
				t.Fatalf("Policy failed: %v", err)
			}
			s, err := Generate(NewRand(42), tc.start, tc.end, 70, 180, tc.g)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			wantLen := int(tc.end.Sub(tc.start)/p.Step) + 1
			if s.Len() != wantLen {
				t.Fatalf("expected %d entries, got %d", wantLen, s.Len())
			}
			if len(s.Values) != len(s.Timestamps) {
				t.Fatalf("timestamps/values mismatch: %d vs %d", len(s.Timestamps), len(s.Values))
			}
			for i, ts := range s.Timestamps {
				if ts.Before(tc.start) || ts.After(tc.end) {
					t.Errorf("timestamp %s outside [%s, %s]", ts, tc.start, tc.end)
				}
				if i > 0 && ts.Sub(s.Timestamps[i-1]) != p.Step {
					t.Errorf("entry %d: step %s, expected %s", i, ts.Sub(s.Timestamps[i-1]), p.Step)
				}
			}
			for _, v := range s.Values {
				if v < 70 || v > 180 {
					t.Errorf("value %d outside [70, 180]", v)
				}
			}
		})
	}
}

func TestGenerate_InclusiveBounds(t *testing.T) {
	s, err := Generate(NewRand(3), date(2025, 1, 1, 0, 0), date(2025, 1, 1, 23, 0), 100, 100, GranularityHour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, v := range s.Values {
		if v != 100 {
			t.Fatalf("expected every value to be 100, got %d", v)
		}
	}

	s, err = Generate(NewRand(3), date(2025, 1, 1, 0, 0), date(2025, 1, 2, 0, 0), 1, 2, GranularityMinute)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	seen := map[int]bool{}
	for _, v := range s.Values {
		seen[v] = true
	}
	if !seen[1] || !seen[2] {
		t.Errorf("expected both bounds to be drawn over %d samples, saw %v", s.Len(), seen)
	}
}

func TestGenerate_WideValueRanges(t *testing.T) {
	cases := []struct {
		name     string
		min, max int
	}{
		{"zero to max int", 0, math.MaxInt},
		{"minus one to max int", -1, math.MaxInt},
		{"full int range", math.MinInt, math.MaxInt},
		{"negative range", math.MinInt, math.MinInt + 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Generate(NewRand(1), date(2025, 1, 1, 0, 0), date(2025, 1, 1, 2, 0), tc.min, tc.max, GranularityHour)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if s.Len() != 3 {
				t.Fatalf("expected 3 readings, got %d", s.Len())
			}
			for _, v := range s.Values {
				if v < tc.min || v > tc.max {
					t.Errorf("value %d outside [%d, %d]", v, tc.min, tc.max)
				}
			}
		})
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	start := date(2025, 1, 20, 0, 0)
	for _, g := range Granularities() {
		if _, err := Generate(NewRand(1), start, start, 70, 180, g); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s: start == end: expected ErrInvalidRange, got %v", g, err)
		}
		if _, err := Generate(NewRand(1), start, start.Add(-time.Hour), 70, 180, g); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s: start > end: expected ErrInvalidRange, got %v", g, err)
		}
	}
}

func TestGenerate_InvalidGranularity(t *testing.T) {
	_, err := Generate(NewRand(1), date(2025, 1, 1, 0, 0), date(2025, 1, 2, 0, 0), 70, 180, Granularity("week"))
	if !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

func TestGenerate_InvalidValueRange(t *testing.T) {
	_, err := Generate(NewRand(1), date(2025, 1, 1, 0, 0), date(2025, 1, 2, 0, 0), 180, 70, GranularityDay)
	if !errors.Is(err, ErrInvalidValueRange) {
		t.Fatalf("expected ErrInvalidValueRange, got %v", err)
	}
}

func TestGenerate_SameSeedSameSeries(t *testing.T) {
	start := date(2025, 1, 1, 0, 0)
	end := date(2025, 1, 3, 0, 0)

	a, err := Generate(NewRand(99), start, end, 70, 180, GranularityHour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(NewRand(99), start, end, 70, 180, GranularityHour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			t.Fatalf("entry %d differs: %d vs %d", i, a.Values[i], b.Values[i])
		}
	}
}

func TestGenerate_NilRand(t *testing.T) {
	s, err := Generate(nil, date(2025, 1, 1, 0, 0), date(2025, 1, 1, 5, 0), 70, 180, GranularityHour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("expected 6 entries, got %d", s.Len())
	}
}

func TestSeries_Window(t *testing.T) {
	s, _ := Generate(NewRand(1), date(2025, 1, 1, 0, 0), date(2025, 1, 1, 0, 10), 70, 180, GranularityMinute)

	if w := s.Window(0); w.Len() != s.Len() {
		t.Errorf("Window(0): expected %d, got %d", s.Len(), w.Len())
	}
	if w := s.Window(61); w.Len() != s.Len() {
		t.Errorf("Window(61) on short series: expected %d, got %d", s.Len(), w.Len())
	}
	w := s.Window(3)
	if w.Len() != 3 || len(w.Values) != 3 {
		t.Fatalf("Window(3): expected 3 points, got %d/%d", w.Len(), len(w.Values))
	}
	if !w.Timestamps[0].Equal(s.Timestamps[0]) {
		t.Errorf("window should start at the first point")
	}
}
