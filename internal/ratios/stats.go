package ratios

import "math"

// minVariance is the relative floor below which a series counts as flat.
// Summing a constant series can leave a variance of ~1e-35 instead of 0.
const minVariance = 1e-12

// Mean returns the arithmetic mean, NaN for an empty series
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// SampleVariance uses the n-1 denominator. NaN below two observations.
func SampleVariance(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	m := Mean(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return s / float64(len(vals)-1)
}

// SampleCovariance uses the n-1 denominator. NaN on length mismatch or
// fewer than two observations.
func SampleCovariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return math.NaN()
	}
	ma, mb := Mean(a), Mean(b)
	s := 0.0
	for i := range a {
		s += (a[i] - ma) * (b[i] - mb)
	}
	return s / float64(len(a)-1)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// constant reports whether every value equals the first
func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// flat reports whether vals has no usable spread
func flat(vals []float64) bool {
	if len(vals) == 0 || constant(vals) {
		return true
	}
	m := Mean(vals)
	return SampleVariance(vals) <= minVariance*math.Max(1, m*m)
}
