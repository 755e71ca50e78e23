package infrastructure

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"frame-reduction/internal/domain"
)

// TXTFrameReader reads the labeled TXT grid format: a header line of
// column labels, then one line per row starting with the row
// coordinate. Negative raw pixels are treated as sensor artifacts and
// replaced with NaN.
type TXTFrameReader struct {
	logger *zap.Logger
}

func NewTXTFrameReader(logger *zap.Logger) *TXTFrameReader {
	return &TXTFrameReader{logger: logger}
}

func (r *TXTFrameReader) ReadFrame(filename string) (*domain.FrameData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(lines) < 2 {
		return nil, domain.ErrInvalidFileFormat
	}

	// Header: first token is the corner label, the rest are column labels.
	header := strings.Fields(lines[0])
	if len(header) < 2 {
		return nil, domain.ErrInvalidFileFormat
	}
	colCoords := header[1:]

	var rowCoords []float64
	var pixels [][]float64

	for i := 1; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) < 2 {
			continue
		}

		coord, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}

		if len(fields)-1 != len(colCoords) {
			r.logger.Warn("row width does not match header",
				zap.Int("line", i+1),
				zap.Int("want", len(colCoords)),
				zap.Int("got", len(fields)-1))
			return nil, domain.ErrInvalidFileFormat
		}

		row := make([]float64, 0, len(fields)-1)
		for j := 1; j < len(fields); j++ {
			value, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, err
			}
			if value < 0 {
				r.logger.Warn("negative pixel replaced with NaN",
					zap.Float64("value", value))
				value = math.NaN()
			}
			row = append(row, value)
		}
		rowCoords = append(rowCoords, coord)
		pixels = append(pixels, row)
	}

	if len(pixels) == 0 {
		return nil, domain.ErrInvalidFileFormat
	}

	return &domain.FrameData{
		RowCoords: rowCoords,
		ColCoords: colCoords,
		Pixels:    pixels,
		Rows:      len(pixels),
		Cols:      len(pixels[0]),
	}, nil
}
