package reducer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

var testID = model.CurveID{Object: "locator1", Attr: "tx"}

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// keyed builds a curve with one key per integer time starting at 0.
func keyed(t *testing.T, typ model.TangentType, values ...float64) *anim.MemCurve {
	t.Helper()
	c := anim.NewMemCurve(testID, false)
	for i, v := range values {
		c.AddKey(float64(i), v, typ, typ, anim.Untracked)
	}
	return c
}

func times(c anim.Curve) []float64 {
	out := make([]float64, c.NumKeys())
	for i := range out {
		out[i] = c.Time(i)
	}
	return out
}

func intp(v int) *int { return &v }
