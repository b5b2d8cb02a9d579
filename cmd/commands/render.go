package commands

// Command to generate one glucose chart and save it as PNG
// Optionally opens the result in the system image viewer (chart.show)

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glucose-chart/internal/features/report"
	"glucose-chart/internal/infra/exec"
	logging "glucose-chart/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate a glucose series and save the chart",
	Long: `Generate a synthetic glucose series with the configured range, values and granularity,
render it and save the PNG under chart.output_dir. With --chart.show the chart is opened in
the system image viewer.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	builder, err := report.NewBuilder(cfg)
	if err != nil {
		return err
	}
	res, err := builder.Build(ctx, report.Override{})
	if err != nil {
		logging.LogError("Failed to render chart", zap.Error(err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Path)

	if cfg.Chart.Show {
		output, err := exec.OpenViewer(ctx, res.Path, 10*time.Second)
		if err != nil {
			logging.LogWarn("Failed to open chart viewer",
				zap.String("path", res.Path),
				zap.String("output", string(output)),
				zap.Error(err))
		}
	}
	return nil
}
