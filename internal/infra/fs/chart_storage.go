package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	logging "glucose-chart/internal/infra/log"

	"go.uber.org/zap"
)

// DefaultChartsDir is where rendered charts go when no directory is configured.
const DefaultChartsDir = "etc/charts"

// SaveChart creates dir, streams the chart produced by write into dir/name and
// checks that a non-empty file landed on disk. It returns the file path.
func SaveChart(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = DefaultChartsDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create charts directory: %w", err)
	}

	filename := filepath.Join(dir, name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		os.Remove(filename)
		return "", fmt.Errorf("failed to write chart: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close chart file: %w", err)
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return "", fmt.Errorf("failed to stat chart file: %w", err)
	}
	if fileInfo.Size() == 0 {
		os.Remove(filename)
		logging.LogError("Chart file is empty after rendering", zap.String("filename", filename))
		return "", fmt.Errorf("chart file is empty after rendering")
	}

	logging.LogInfo("Chart saved",
		zap.String("filename", filename),
		zap.Int64("fileSize", fileInfo.Size()))
	return filename, nil
}

// ChartFileName builds "glucose_<granularity>_<stamp>.png".
func ChartFileName(granularity, stamp string) string {
	name := "glucose_" + granularity
	if stamp != "" {
		name += "_" + strings.NewReplacer(":", "", " ", "_", "/", "-").Replace(stamp)
	}
	return name + ".png"
}
