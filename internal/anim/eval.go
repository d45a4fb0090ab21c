package anim

import (
	"github.com/rcliao/keyreducer/internal/model"
)

const bisectIterations = 64

// Evaluate returns the curve value at t. Outside the keyed range the curve
// holds its first or last value.
func (c *MemCurve) Evaluate(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return 0
	case t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		return c.keys[n-1].Value
	}
	i := c.search(t)
	if c.keys[i].Time == t {
		return c.keys[i].Value
	}
	return c.segment(c.keys[i-1], c.keys[i], t)
}

func (c *MemCurve) segment(k0, k1 model.Keyframe, t float64) float64 {
	switch k0.OutType {
	case model.TangentStep:
		return k0.Value
	case model.TangentStepNext:
		return k1.Value
	}
	dt := k1.Time - k0.Time
	if k0.OutType == model.TangentLinear && k1.InType == model.TangentLinear {
		return k0.Value + (k1.Value-k0.Value)*(t-k0.Time)/dt
	}

	ox, oy := c.handle(k0.OutX, k0.OutY, dt)
	ix, iy := c.handle(k1.InX, k1.InY, dt)
	// Keep the control polygon monotonic in time so each t has one value.
	if sum := ox + ix; sum > dt {
		s := dt / sum
		ox, oy, ix, iy = ox*s, oy*s, ix*s, iy*s
	}

	x0, x1, x2, x3 := k0.Time, k0.Time+ox, k1.Time-ix, k1.Time
	y0, y1, y2, y3 := k0.Value, k0.Value+oy, k1.Value-iy, k1.Value

	lo, hi := 0.0, 1.0
	for i := 0; i < bisectIterations; i++ {
		mid := (lo + hi) / 2
		if bezier(x0, x1, x2, x3, mid) < t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return bezier(y0, y1, y2, y3, (lo+hi)/2)
}

// handle converts a stored tangent into a control-point offset for a segment
// of length dt.
func (c *MemCurve) handle(x, y, dt float64) (float64, float64) {
	if x <= 0 {
		return 0, 0
	}
	if c.weighted {
		if x > dt {
			return dt, y * dt / x
		}
		return x, y
	}
	l := dt / 3
	return l, y / x * l
}

func bezier(p0, p1, p2, p3, s float64) float64 {
	u := 1 - s
	return u*u*u*p0 + 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s*p3
}
