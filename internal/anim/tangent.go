package anim

import (
	"math"

	"github.com/rcliao/keyreducer/internal/model"
)

const clampEpsilon = 1e-9

// recompute refreshes the handles of key i for every side whose tangent type
// is computed automatically. Fixed sides are left untouched.
func (c *MemCurve) recompute(i int) {
	k := &c.keys[i]
	if k.InType != model.TangentFixed {
		x := c.sideSpan(i, true) / 3
		k.InX, k.InY = x, c.slope(i, k.InType, true)*x
	}
	if k.OutType != model.TangentFixed {
		x := c.sideSpan(i, false) / 3
		k.OutX, k.OutY = x, c.slope(i, k.OutType, false)*x
	}
}

// sideSpan is the time distance to the neighbour on the given side, falling
// back to the other side and then to one unit.
func (c *MemCurve) sideSpan(i int, in bool) float64 {
	prev, next := i > 0, i < len(c.keys)-1
	t := c.keys[i].Time
	switch {
	case in && prev:
		return t - c.keys[i-1].Time
	case !in && next:
		return c.keys[i+1].Time - t
	case prev:
		return t - c.keys[i-1].Time
	case next:
		return c.keys[i+1].Time - t
	}
	return 1
}

func (c *MemCurve) slope(i int, typ model.TangentType, in bool) float64 {
	prev, next := i > 0, i < len(c.keys)-1
	k := c.keys[i]
	toPrev := func() float64 { return (k.Value - c.keys[i-1].Value) / (k.Time - c.keys[i-1].Time) }
	toNext := func() float64 { return (c.keys[i+1].Value - k.Value) / (c.keys[i+1].Time - k.Time) }

	switch typ {
	case model.TangentLinear:
		switch {
		case in && prev, !next && prev:
			return toPrev()
		case next:
			return toNext()
		}
		return 0
	case model.TangentSpline, model.TangentClamped:
		if typ == model.TangentClamped {
			if prev && math.Abs(k.Value-c.keys[i-1].Value) < clampEpsilon {
				return 0
			}
			if next && math.Abs(c.keys[i+1].Value-k.Value) < clampEpsilon {
				return 0
			}
			if prev && next && (k.Value-c.keys[i-1].Value)*(c.keys[i+1].Value-k.Value) < 0 {
				return 0
			}
		}
		switch {
		case prev && next:
			return (c.keys[i+1].Value - c.keys[i-1].Value) / (c.keys[i+1].Time - c.keys[i-1].Time)
		case prev:
			return toPrev()
		case next:
			return toNext()
		}
		return 0
	}
	// flat, step, stepnext
	return 0
}

func handleLength(k *model.Keyframe, in bool) float64 {
	if in {
		return math.Hypot(k.InX, k.InY)
	}
	return math.Hypot(k.OutX, k.OutY)
}

// rescale returns (x, y) scaled to length l. Zero vectors and zero lengths
// pass through unchanged.
func rescale(x, y, l float64) (float64, float64) {
	h := math.Hypot(x, y)
	if h == 0 || l == 0 {
		return x, y
	}
	return x / h * l, y / h * l
}
