// Package cli implements the frame-reduction command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"frame-reduction/internal/domain"
	"frame-reduction/internal/infrastructure"
	"frame-reduction/internal/logging"
)

const Version = "0.1.0"

var (
	cfgFile      string
	workersFlag  int
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "frame-reduction",
	Short: "Parallel reduction engine for 2-D survey frames",
	Long:  `frame-reduction reads labeled TXT pixel grids, removes impulse noise
and subtracts the sky background tile-by-tile on a bounded worker pool,
and writes the reduced frame back out. It can also synthesize test
frames and benchmark matrix-multiply scaling across pool capacities.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "override the configured worker count")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "override the configured log level")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// setup reads the configuration with a bootstrap logger, applies the
// flag overrides and builds the configured logger.
func setup() (*zap.Logger, *domain.Config, error) {
	boot := logging.New(domain.LoggingConfig{})
	reader := infrastructure.NewYAMLConfigReader(boot)

	config, err := reader.ReadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	// Flags beat file values.
	if workersFlag > 0 {
		config.Workers = workersFlag
	}
	if logLevelFlag != "" {
		config.Logging.Level = logLevelFlag
	}

	return logging.New(config.Logging), config, nil
}
