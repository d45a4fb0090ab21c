package reducer

import (
	"context"
	"testing"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

func resolverFor(c anim.Curve) anim.Resolver {
	return func(model.CurveID) (anim.Curve, error) { return c, nil }
}

func TestReduceHold(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentLinear, 0, 0, 0, 10, 10, 10)

	res, err := Reduce(ctx, c, DefaultOptions(), anim.Untracked)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	diff(t, []float64{0, 2, 3, 5}, times(c))
	if res.KeysBefore != 6 || res.KeysAfter != 4 || res.Repaired != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestReduceRepairsHolds(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentLinear, 0, 0, 0, 10, 10, 10)

	res, err := Reduce(ctx, c, Options{Tolerance: 2}, anim.Untracked)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	diff(t, []float64{0, 1, 4, 5}, times(c))
	if res.Selected != 2 || res.Repaired != 2 {
		t.Errorf("expected 2 selected and 2 repaired, got %+v", res)
	}
}

func TestReduceLinear(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentLinear, 0, 1, 2, 3, 4)

	if _, err := Reduce(ctx, c, Options{Tolerance: 0.01}, anim.Untracked); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	diff(t, []float64{0, 4}, times(c))
	if got := c.Evaluate(2); got != 2 {
		t.Errorf("Evaluate(2) = %v, want 2", got)
	}
}

func TestReduceTwoKeys(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentClamped, 3, 8)
	j := &anim.Journal{}

	res, err := Reduce(ctx, c, DefaultOptions(), j)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if res.Skipped != SkipTooFewKeys {
		t.Errorf("expected skip %q, got %q", SkipTooFewKeys, res.Skipped)
	}
	if j.Len() != 0 {
		t.Errorf("expected no edits, got %d", j.Len())
	}
}

func TestReduceRejectsBadTolerance(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentLinear, 0, 1, 0)
	if _, err := Reduce(ctx, c, Options{Tolerance: -1}, anim.Untracked); err == nil {
		t.Error("expected error for negative tolerance")
	}
}

func squareWave(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64((i/5)%2) * 10
	}
	return values
}

func TestReduceWindow(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentClamped, squareWave(31)...)
	before := anim.Keys(c)
	opts := Options{Tolerance: 0.5, Window: Window{Start: intp(10), End: intp(20)}}

	res, err := Reduce(ctx, c, opts, anim.Untracked)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if res.Candidates != 11 {
		t.Errorf("expected 11 candidates, got %d", res.Candidates)
	}
	if res.KeysAfter >= res.KeysBefore {
		t.Errorf("expected fewer keys, got %d -> %d", res.KeysBefore, res.KeysAfter)
	}

	var wantOutside, gotOutside []model.Keyframe
	for _, k := range before {
		if !opts.Window.Contains(k.Time) {
			wantOutside = append(wantOutside, k)
		}
	}
	for _, k := range anim.Keys(c) {
		if !opts.Window.Contains(k.Time) {
			gotOutside = append(gotOutside, k)
		}
	}
	diff(t, wantOutside, gotOutside)

	for _, k := range anim.Keys(c) {
		if k.Value != before[int(k.Time)].Value {
			t.Errorf("key at %v changed value from %v to %v", k.Time, before[int(k.Time)].Value, k.Value)
		}
	}
}

func TestReduceInvertedWindow(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentLinear, 0, 1, 5, 1, 0)
	before := anim.Keys(c)
	j := &anim.Journal{}

	res, err := Reduce(ctx, c, Options{Window: Window{Start: intp(3), End: intp(1)}}, j)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if res.Skipped != SkipTooFewCandidates {
		t.Errorf("expected skip %q, got %q", SkipTooFewCandidates, res.Skipped)
	}
	diff(t, before, anim.Keys(c))
	if j.Len() != 0 {
		t.Errorf("expected no edits, got %d", j.Len())
	}
}

func TestReducePreBake(t *testing.T) {
	ctx := context.Background()
	c := anim.NewMemCurve(testID, true)
	for _, tv := range [][2]float64{{0, 0}, {5, 5}, {10, 10}} {
		c.AddKey(tv[0], tv[1], model.TangentSpline, model.TangentSpline, anim.Untracked)
	}

	res, err := Reduce(ctx, c, Options{Tolerance: 0.5, PreBake: true}, anim.Untracked)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if res.Candidates != 11 {
		t.Errorf("expected 11 baked candidates, got %d", res.Candidates)
	}
	diff(t, []float64{0, 10}, times(c))
	if c.IsWeighted() {
		t.Error("expected pre-bake to clear weighting")
	}
	if k := c.Key(0); k.OutType != model.TangentLinear {
		t.Errorf("expected linear tangents after pre-bake, got %q", k.OutType)
	}
}

func TestPreSampleWindow(t *testing.T) {
	c := keyed(t, model.TangentLinear, 0, 10, 20, 30)
	c.AddKey(2.5, 99, model.TangentLinear, model.TangentLinear, anim.Untracked)

	PreSample(c, Window{Start: intp(1), End: intp(2)}, anim.Untracked)
	diff(t, []float64{0, 1, 2, 2.5, 3}, times(c))
}

func TestReduceUndo(t *testing.T) {
	ctx := context.Background()
	c := keyed(t, model.TangentClamped, squareWave(25)...)
	c.SetTangentsLocked(7, true, anim.Untracked)
	before := anim.Keys(c)
	j := &anim.Journal{}

	if _, err := Reduce(ctx, c, Options{Tolerance: 1, PreBake: true}, j); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	after := anim.Keys(c)

	if err := j.Undo(resolverFor(c)); err != nil {
		t.Fatalf("undo: %v", err)
	}
	diff(t, before, anim.Keys(c))

	if err := j.Redo(resolverFor(c)); err != nil {
		t.Fatalf("redo: %v", err)
	}
	diff(t, after, anim.Keys(c))
}

func TestRepairBoundariesStaysInWindow(t *testing.T) {
	src := keyed(t, model.TangentLinear, 0, 0, 0, 10, 10, 10)
	dst := src.NewScratch()
	Reconstruct(src, []int{0, 5}, dst, anim.Untracked)

	n := RepairBoundaries(src, dst, Window{Start: intp(2), End: intp(5)})
	if n != 1 {
		t.Errorf("expected 1 repair, got %d", n)
	}
	diff(t, []float64{0, 4, 5}, times(dst))
}
