package reducer

import (
	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

// PreSample replaces every key inside the window with one linear key per
// integer time step, sampled from the curve as it was. Tangent shape is
// discarded and the curve is made unweighted.
func PreSample(c anim.Curve, w Window, rec anim.Recorder) {
	n := c.NumKeys()
	if n == 0 {
		return
	}
	lo := int(c.Time(0))
	if w.Start != nil {
		lo = *w.Start
	}
	hi := int(c.Time(n - 1))
	if w.End != nil {
		hi = *w.End
	}

	var values []float64
	for t := lo; t <= hi; t++ {
		values = append(values, c.Evaluate(float64(t)))
	}

	for i := n - 1; i >= 0; i-- {
		if w.Contains(c.Time(i)) {
			c.Remove(i, rec)
		}
	}
	for i, v := range values {
		c.AddKey(float64(lo+i), v, model.TangentLinear, model.TangentLinear, rec)
	}
	c.SetWeighted(false, rec)
}
