package reducer

import (
	"context"
	"log/slog"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

// Reduce simplifies the keys of c that fall inside opts.Window. Every change
// to c goes through rec; the scratch curve used along the way is untracked
// and discarded. Curves with too few keys are left alone and reported as
// skipped.
func Reduce(ctx context.Context, c anim.Curve, opts Options, rec anim.Recorder) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	logger := slog.Default().With("component", "reducer", "curve", c.ID().String())

	res := Result{Curve: c.ID().String(), KeysBefore: c.NumKeys()}
	if c.NumKeys() <= 2 {
		res.KeysAfter = res.KeysBefore
		res.Skipped = SkipTooFewKeys
		logger.DebugContext(ctx, "skipping curve", "reason", res.Skipped)
		return res, nil
	}

	// Keys outside the window must come through untouched, but removing and
	// inserting their neighbours recalculates automatic tangents.
	var outside []model.Keyframe
	for i := 0; i < c.NumKeys(); i++ {
		if !opts.Window.Contains(c.Time(i)) {
			outside = append(outside, c.Key(i))
		}
	}

	if opts.PreBake {
		PreSample(c, opts.Window, rec)
		logger.DebugContext(ctx, "pre-sampled curve", "keys", c.NumKeys())
	}

	var candidates []int
	for i := 0; i < c.NumKeys(); i++ {
		if opts.Window.Contains(c.Time(i)) {
			candidates = append(candidates, i)
		}
	}
	res.Candidates = len(candidates)
	if len(candidates) <= 2 {
		restoreKeys(c, outside, rec)
		res.KeysAfter = c.NumKeys()
		res.Skipped = SkipTooFewCandidates
		logger.DebugContext(ctx, "skipping curve", "reason", res.Skipped)
		return res, nil
	}

	scratch := c.NewScratch()
	selected := Simplify(c, candidates, opts.Tolerance)
	res.Selected = len(selected)
	Reconstruct(c, selected, scratch, anim.Untracked)
	res.Repaired = RepairBoundaries(c, scratch, opts.Window)

	for i := c.NumKeys() - 1; i >= 0; i-- {
		if opts.Window.Contains(c.Time(i)) {
			c.Remove(i, rec)
		}
	}
	all := make([]int, scratch.NumKeys())
	for i := range all {
		all[i] = i
	}
	Reconstruct(scratch, all, c, rec)
	restoreKeys(c, outside, rec)

	res.KeysAfter = c.NumKeys()
	recordReduction(ctx, opts.Metrics, res)
	logger.DebugContext(ctx, "reduced curve",
		"keys_before", res.KeysBefore,
		"keys_after", res.KeysAfter,
		"selected", res.Selected,
		"repaired", res.Repaired)
	return res, nil
}

// restoreKeys re-applies tangents and locks to keys that have drifted from
// their saved state.
func restoreKeys(c anim.Curve, keys []model.Keyframe, rec anim.Recorder) {
	for _, k := range keys {
		if i, ok := c.Find(k.Time); ok && c.Key(i) != k {
			anim.ApplyTangents(c, i, k, rec)
		}
	}
}
