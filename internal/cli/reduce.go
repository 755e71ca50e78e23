package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"frame-reduction/internal/app"
	"frame-reduction/internal/infrastructure"
)

var reduceCmd = &cobra.Command{
	Use:   "reduce <in.txt> <out.txt>",
	Short: "Reduce one frame: median-filter tiles and subtract the background",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, config, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		reader := infrastructure.NewTXTFrameReader(logger)
		frame, err := reader.ReadFrame(args[0])
		if err != nil {
			return fmt.Errorf("read frame %s: %w", args[0], err)
		}

		logger.Info("starting reduction",
			zap.String("input", args[0]),
			zap.Int("rows", frame.Rows),
			zap.Int("cols", frame.Cols),
			zap.Int("workers", config.Workers))

		reducer := app.NewReducer(logger, config)
		reduced, report, err := reducer.Reduce(cmd.Context(), frame)
		if err != nil {
			return fmt.Errorf("reduce: %w", err)
		}
		if report.Failed > 0 {
			logger.Warn("some tiles failed; their bands are NaN in the output",
				zap.Int("failed", report.Failed))
		}

		format := func(val float64) string {
			return strconv.FormatFloat(val, 'f', config.Decimals, 64)
		}
		writer := infrastructure.NewTXTFrameWriter(logger)
		if err := writer.WriteFrame(args[1], reduced, format); err != nil {
			return fmt.Errorf("write frame %s: %w", args[1], err)
		}

		logger.Info("reduction complete", zap.String("output", args[1]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reduceCmd)
}
