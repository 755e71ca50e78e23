package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"frame-reduction/internal/infrastructure"
	"frame-reduction/internal/synth"
)

var seedFlag uint64

var simulateCmd = &cobra.Command{
	Use:   "simulate <out.txt>",
	Short: "Write a synthetic star-field frame for testing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, config, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if seedFlag != 0 {
			config.Synth.Seed = seedFlag
		}

		frame := synth.NewGenerator(logger, config.Synth).Frame()

		format := func(val float64) string {
			return strconv.FormatFloat(val, 'f', config.Decimals, 64)
		}
		writer := infrastructure.NewTXTFrameWriter(logger)
		if err := writer.WriteFrame(args[0], frame, format); err != nil {
			return fmt.Errorf("write frame %s: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "override the synthesis seed")
	rootCmd.AddCommand(simulateCmd)
}
