package infrastructure

import (
	"os"
	"runtime"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"frame-reduction/internal/domain"
)

type YAMLConfigReader struct {
	logger *zap.Logger
}

func NewYAMLConfigReader(logger *zap.Logger) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger}
}

func (r *YAMLConfigReader) ReadConfig(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config domain.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	r.setDefaults(&config)

	return &config, nil
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	if config.Workers == 0 {
		config.Workers = max(1, runtime.NumCPU()-1)
	}
	if config.TileRows == 0 {
		config.TileRows = 32
	}
	if config.FilterWindow == 0 {
		config.FilterWindow = 3
	}
	if config.ClipSigma == 0 {
		config.ClipSigma = 3.0
	}
	if config.ClipMaxIter == 0 {
		config.ClipMaxIter = 5
	}
	if config.Decimals == 0 {
		config.Decimals = 4
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}

	if config.Synth.Rows == 0 {
		config.Synth.Rows = 256
	}
	if config.Synth.Cols == 0 {
		config.Synth.Cols = 256
	}
	if config.Synth.Background == 0 {
		config.Synth.Background = 100.0
	}
	if config.Synth.ReadNoise == 0 {
		config.Synth.ReadNoise = 5.0
	}
	if config.Synth.Stars == 0 {
		config.Synth.Stars = 40
	}
	if config.Synth.Impulses == 0 {
		config.Synth.Impulses = 50
	}
	if config.Synth.ImpulseLevel == 0 {
		config.Synth.ImpulseLevel = 5000.0
	}
	if config.Synth.Seed == 0 {
		config.Synth.Seed = 1
	}

	if len(config.Bench.Sizes) == 0 {
		config.Bench.Sizes = []int{256, 512}
	}
	if len(config.Bench.Capacities) == 0 {
		config.Bench.Capacities = []int{1, 2, 4, 8}
	}
	if config.Bench.Rounds == 0 {
		config.Bench.Rounds = 5
	}
	if config.Bench.BandRows == 0 {
		config.Bench.BandRows = 32
	}
}
