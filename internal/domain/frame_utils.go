package domain

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrInvalidFrame = errors.New("invalid frame")

// Hist calculates the histogram of the frame pixels within a specified
// range. With min == max the range is taken from the data.
func (f *FrameData) Hist(min, max float64, n int) (Histogram, error) {
	if f == nil || len(f.Pixels) == 0 || n < 2 {
		return Histogram{}, ErrInvalidFrame
	}

	if min == max {
		min = math.Inf(1)
		max = math.Inf(-1)
		for _, row := range f.Pixels {
			for _, value := range row {
				if math.IsNaN(value) {
					continue
				}
				if value < min {
					min = value
				}
				if value > max {
					max = value
				}
			}
		}
		if min > max {
			return Histogram{}, ErrInvalidFrame
		}
	}

	binWidth := (max - min) / float64(n-1)
	if binWidth == 0 {
		binWidth = 1
	}
	histogram := make([]int, n)
	bins := make([]float64, n)

	for i := range n {
		bins[i] = min + float64(i)*binWidth
	}

	for _, row := range f.Pixels {
		for _, value := range row {
			if math.IsNaN(value) {
				continue
			}
			if value < min {
				value = min
			} else if value > max {
				value = max
			}
			binIndex := int((value - min) / binWidth)
			if binIndex >= n {
				binIndex = n - 1
			}
			histogram[binIndex]++
		}
	}

	return Histogram{
		Bins: bins,
		Vals: histogram,
		Len:  n,
	}, nil
}

// Stats computes mean, standard deviation and extrema over the finite
// pixels of the frame.
func (f *FrameData) Stats() (FrameStats, error) {
	if f == nil || len(f.Pixels) == 0 {
		return FrameStats{}, ErrInvalidFrame
	}

	finite := make([]float64, 0, f.Rows*f.Cols)
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, row := range f.Pixels {
		for _, value := range row {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			finite = append(finite, value)
			if value < min {
				min = value
			}
			if value > max {
				max = value
			}
		}
	}
	if len(finite) == 0 {
		return FrameStats{}, ErrInvalidFrame
	}

	mean, std := stat.MeanStdDev(finite, nil)
	return FrameStats{
		Mean:   mean,
		StdDev: std,
		Min:    min,
		Max:    max,
		Finite: len(finite),
	}, nil
}

// Clone deep-copies the frame.
func (f *FrameData) Clone() *FrameData {
	if f == nil {
		return nil
	}
	out := &FrameData{
		RowCoords: append([]float64(nil), f.RowCoords...),
		ColCoords: append([]string(nil), f.ColCoords...),
		Pixels:    make([][]float64, len(f.Pixels)),
		Rows:      f.Rows,
		Cols:      f.Cols,
	}
	for i, row := range f.Pixels {
		out.Pixels[i] = append([]float64(nil), row...)
	}
	return out
}
