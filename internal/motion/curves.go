package motion

import "math"

// Curve maps linear progress t in [0, 1] to eased progress.
type Curve func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// EaseInOut starts and ends slowly. Same control points as CSS ease-in-out.
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// CubicBezier returns a curve through (0,0), (x1,y1), (x2,y2), (1,1),
// equivalent to CSS cubic-bezier().
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		// Solve bezierX(u) = t for u, then evaluate y at u.
		u := t
		for range 8 {
			dx := bezier(x1, x2, u) - t
			if math.Abs(dx) < 1e-7 {
				return bezier(y1, y2, u)
			}
			d := bezierSlope(x1, x2, u)
			if math.Abs(d) < 1e-7 {
				break
			}
			u -= dx / d
		}

		lo, hi := 0.0, 1.0
		u = math.Min(math.Max(u, 0), 1)
		for range 20 {
			dx := bezier(x1, x2, u) - t
			if math.Abs(dx) < 1e-7 {
				break
			}
			if dx > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return bezier(y1, y2, u)
	}
}

// bezier evaluates one axis of the curve with endpoints fixed at 0 and 1.
func bezier(p1, p2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*p1 + 3*inv*u*u*p2 + u*u*u
}

func bezierSlope(p1, p2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*p1 + 6*inv*u*(p2-p1) + 3*u*u*(1-p2)
}
