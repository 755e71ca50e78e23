// Package filter holds the pixel-level reduction kernels: impulse
// removal by median filtering and background estimation by iterative
// sigma clipping.
package filter

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEvenWindow = errors.New("filter window must be odd and >= 3")
	ErrEmptyInput = errors.New("empty input")
	ErrBadSigma   = errors.New("clip sigma must be positive")
)

// Median applies a w×w median filter to src with edge clamping and
// returns a new grid of the same shape. NaN pixels are ignored inside
// the window; a window with no finite pixels yields NaN. Single-pixel
// impulses (cosmic-ray hits) vanish because the window median is
// dominated by the neighbours.
func Median(src [][]float64, w int) ([][]float64, error) {
	if len(src) == 0 || len(src[0]) == 0 {
		return nil, ErrEmptyInput
	}
	if w < 3 || w%2 == 0 {
		return nil, ErrEvenWindow
	}

	rows := len(src)
	cols := len(src[0])
	for _, row := range src {
		if len(row) != cols {
			return nil, ErrEmptyInput
		}
	}

	half := w / 2
	out := make([][]float64, rows)
	window := make([]float64, 0, w*w)

	for i := range rows {
		out[i] = make([]float64, cols)
		for j := range cols {
			window = window[:0]
			for di := -half; di <= half; di++ {
				ii := clamp(i+di, 0, rows-1)
				for dj := -half; dj <= half; dj++ {
					jj := clamp(j+dj, 0, cols-1)
					if v := src[ii][jj]; !math.IsNaN(v) {
						window = append(window, v)
					}
				}
			}
			out[i][j] = median(window)
		}
	}
	return out, nil
}

// ClippedStats estimates mean and standard deviation by iteratively
// discarding values beyond sigma standard deviations of the current
// mean, up to maxIter passes or until no value is discarded. NaNs are
// dropped up front.
func ClippedStats(values []float64, sigma float64, maxIter int) (mean, std float64, err error) {
	if sigma <= 0 {
		return 0, 0, ErrBadSigma
	}
	if maxIter < 1 {
		maxIter = 1
	}

	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return 0, 0, ErrEmptyInput
	}

	for range maxIter {
		mean, std = stat.MeanStdDev(kept, nil)
		if math.IsNaN(std) || std == 0 {
			return mean, 0, nil
		}
		next := kept[:0]
		for _, v := range kept {
			if math.Abs(v-mean) <= sigma*std {
				next = append(next, v)
			}
		}
		if len(next) == len(kept) {
			break
		}
		if len(next) == 0 {
			// clip wiped everything; keep the last estimate
			return mean, std, nil
		}
		kept = next
	}
	mean, std = stat.MeanStdDev(kept, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std, nil
}

// SubtractConst subtracts c from every pixel of the grid in place.
func SubtractConst(pixels [][]float64, c float64) {
	for _, row := range pixels {
		floats.AddConst(-c, row)
	}
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return 0.5 * (v[n/2-1] + v[n/2])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
