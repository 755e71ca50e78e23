package domain

// FmtFunc formats one pixel value for output.
type FmtFunc func(float64) string

// FrameReader reads a labeled frame from a file.
type FrameReader interface {
	ReadFrame(filename string) (*FrameData, error)
}

// FrameWriter writes a labeled frame to a file.
type FrameWriter interface {
	WriteFrame(filename string, frame *FrameData, format FmtFunc) error
}

// ConfigReader reads the application configuration.
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}
