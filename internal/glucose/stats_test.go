package glucose

import (
	"math"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		Timestamps: []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour), base.Add(3 * time.Hour)},
		Values:     []int{60, 100, 140, 200},
	}

	sum, err := Summarize(s)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.Count != 4 {
		t.Errorf("expected count 4, got %d", sum.Count)
	}
	if sum.Mean != 125 {
		t.Errorf("expected mean 125, got %.2f", sum.Mean)
	}
	if sum.Median != 120 {
		t.Errorf("expected median 120, got %.2f", sum.Median)
	}
	if sum.Min != 60 || sum.Max != 200 {
		t.Errorf("expected min/max 60/200, got %d/%d", sum.Min, sum.Max)
	}
	if sum.Latest != 200 {
		t.Errorf("expected latest 200, got %d", sum.Latest)
	}
	if sum.TimeInRange != 50 {
		t.Errorf("expected 50%% time in range, got %.2f", sum.TimeInRange)
	}
	// population stddev of {60,100,140,200}
	if math.Abs(sum.StdDev-51.7204) > 0.001 {
		t.Errorf("unexpected stddev %.4f", sum.StdDev)
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum, err := Summarize(Series{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.Count != 0 {
		t.Errorf("expected empty summary, got %+v", sum)
	}
}
