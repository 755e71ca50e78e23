package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"frame-reduction/internal/domain"
)

// TXTFrameWriter writes a frame in the same labeled TXT grid format
// the reader accepts, with a caller-supplied pixel formatter.
type TXTFrameWriter struct {
	logger *zap.Logger
}

func NewTXTFrameWriter(logger *zap.Logger) *TXTFrameWriter {
	return &TXTFrameWriter{logger: logger}
}

func (w *TXTFrameWriter) WriteFrame(filename string, frame *domain.FrameData, format domain.FmtFunc) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	fmt.Fprintf(writer, "Row/Col\t%s\n", strings.Join(frame.ColCoords, "\t"))

	for i, row := range frame.Pixels {
		coord := strconv.FormatFloat(frame.RowCoords[i], 'f', 2, 64)
		rowStr := make([]string, 0, len(row))
		for _, val := range row {
			rowStr = append(rowStr, format(val))
		}
		fmt.Fprintf(writer, "%s\t%s\n", coord, strings.Join(rowStr, "\t"))
	}

	return nil
}

// WriteHistogram writes a two-column bin/count table.
func (w *TXTFrameWriter) WriteHistogram(filename string, hist *domain.Histogram) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	fmt.Fprintf(writer, "X\tY\n")
	for i := range hist.Len {
		fmt.Fprintf(writer, "%.2e\t%10d\n", hist.Bins[i], hist.Vals[i])
	}

	return nil
}
