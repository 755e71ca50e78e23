package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"frame-reduction/internal/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark matrix-multiply scaling across pool capacities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, config, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		runner := bench.NewRunner(logger, config.Bench)
		measurements, err := runner.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "SIZE\tCAPACITY\tROUNDS\tMEAN\tP95\tSPEEDUP")
		for _, m := range measurements {
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%v\t%.2fx\n",
				m.Size, m.Capacity, m.Rounds, m.Mean, m.P95, m.Speedup)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
}
