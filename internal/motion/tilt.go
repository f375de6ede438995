package motion

import "sort"

// MaxTiltDegrees is the rotation reached at twice the surface width.
const MaxTiltDegrees = 120

// Tilt returns the front card's rotation in degrees for horizontal offset x
// on a surface of the given width: -2w, 0, 2w map to -120, 0, 120 and the
// mapping extends linearly past both ends.
func Tilt(x, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return Interpolate(
		[]float64{-2 * width, 0, 2 * width},
		[]float64{-MaxTiltDegrees, 0, MaxTiltDegrees},
		x,
	)
}

// Interpolate maps x through the piecewise-linear function defined by the
// ascending input range and its output range. Values outside the input range
// extend the first or last segment. Ranges must have equal length of at
// least two; otherwise x is returned unchanged.
func Interpolate(in, out []float64, x float64) float64 {
	if len(in) < 2 || len(in) != len(out) {
		return x
	}
	// Segment whose upper bound is the first input >= x, clamped to a valid
	// segment so the ends extrapolate.
	i := sort.SearchFloat64s(in, x)
	if i < 1 {
		i = 1
	}
	if i > len(in)-1 {
		i = len(in) - 1
	}
	x0, x1 := in[i-1], in[i]
	y0, y1 := out[i-1], out[i]
	if x1 == x0 {
		return y1
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
