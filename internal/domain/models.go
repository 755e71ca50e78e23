package domain

import (
	"errors"
)

// Config is the application configuration.
type Config struct {
	Workers            int           `yaml:"workers"`
	TileRows           int           `yaml:"tile_rows"`
	FilterWindow       int           `yaml:"filter_window"`
	ClipSigma          float64       `yaml:"clip_sigma"`
	ClipMaxIter        int           `yaml:"clip_max_iter"`
	SubtractBackground bool          `yaml:"subtract_background"`
	Decimals           int           `yaml:"decimals"`
	Logging            LoggingConfig `yaml:"logging"`
	Synth              SynthConfig   `yaml:"synth"`
	Bench              BenchConfig   `yaml:"bench"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // json, console
	Output     string `yaml:"output"` // stdout, file, both
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type SynthConfig struct {
	Rows         int     `yaml:"rows"`
	Cols         int     `yaml:"cols"`
	Background   float64 `yaml:"background"`
	ReadNoise    float64 `yaml:"read_noise"`
	Stars        int     `yaml:"stars"`
	Impulses     int     `yaml:"impulses"`
	ImpulseLevel float64 `yaml:"impulse_level"`
	Seed         uint64  `yaml:"seed"`
}

type BenchConfig struct {
	Sizes      []int `yaml:"sizes"`
	Capacities []int `yaml:"capacities"`
	Rounds     int   `yaml:"rounds"`
	BandRows   int   `yaml:"band_rows"`
}

// FrameData is a labeled 2-D pixel grid: one row coordinate per row,
// one column label per column.
type FrameData struct {
	RowCoords  []float64
	ColCoords  []string
	Pixels     [][]float64
	Rows, Cols int
}

// FrameStats summarizes the finite pixels of a frame.
type FrameStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Finite int
}

type Histogram struct {
	Bins []float64
	Vals []int
	Len  int
}

var (
	ErrInvalidFileFormat = errors.New("invalid file format")
)
