// Package series holds small numeric helpers for time-ordered entry values.
package series

import "math"

// MovingAverage returns the trailing simple moving average of xs.
//
// out[i] averages xs[max(0, i-window+1) .. i]; the first window-1 outputs
// average whatever history exists. A window below 1 is treated as 1.
func MovingAverage(xs []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(xs))
	for i := range xs {
		span := xs[max(0, i-window+1) : i+1]
		var sum float64
		for _, x := range span {
			sum += x
		}
		out[i] = sum / float64(len(span))
	}
	return out
}

// Pearson returns the Pearson correlation coefficient of xs and ys.
//
// Sequences of different length are compared over the shorter prefix.
// The result is 0 when either sequence has zero variance or fewer than
// two points, and is always within [-1, 1].
func Pearson(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0
	}
	xs, ys = xs[:n], ys[:n]

	mx, my := Mean(xs), Mean(ys)
	var sxy, sxx, syy float64
	for i := range n {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

// Mean returns the arithmetic mean of xs, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
