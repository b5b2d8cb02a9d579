package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	path, err := SaveChart(dir, "day.png", func(w io.Writer) error {
		_, err := w.Write([]byte("png-bytes"))
		return err
	})
	if err != nil {
		t.Fatalf("SaveChart failed: %v", err)
	}
	if path != filepath.Join(dir, "day.png") {
		t.Errorf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("unexpected file content %q (%v)", data, err)
	}
}

func TestSaveChart_EmptyOutputRemoved(t *testing.T) {
	dir := t.TempDir()
	_, err := SaveChart(dir, "empty.png", func(w io.Writer) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty chart")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "empty.png")); !os.IsNotExist(statErr) {
		t.Errorf("expected empty chart to be removed, stat err: %v", statErr)
	}
}

func TestSaveChart_WriteErrorRemovesFile(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("boom")
	_, err := SaveChart(dir, "bad.png", func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "bad.png")); !os.IsNotExist(statErr) {
		t.Errorf("expected partial chart to be removed, stat err: %v", statErr)
	}
}

func TestChartFileName(t *testing.T) {
	if got := ChartFileName("minute", "2025-01-30 00:00"); got != "glucose_minute_2025-01-30_0000.png" {
		t.Errorf("unexpected name %s", got)
	}
	if got := ChartFileName("day", ""); got != "glucose_day.png" {
		t.Errorf("unexpected name %s", got)
	}
}

func TestWaitForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.png")
	go func() {
		time.Sleep(80 * time.Millisecond)
		os.WriteFile(path, []byte("x"), 0644)
	}()
	if err := WaitForFile(context.Background(), path, 2*time.Second); err != nil {
		t.Fatalf("WaitForFile failed: %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.png")
	if err := WaitForFile(context.Background(), missing, 100*time.Millisecond); err == nil {
		t.Error("expected timeout for missing file")
	}
}
