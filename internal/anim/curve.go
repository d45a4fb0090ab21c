// Package anim provides the animation curve abstraction the reducer works
// against, an in-memory implementation, and the edit journal used for undo.
package anim

import "github.com/rcliao/keyreducer/internal/model"

// Curve is an ordered set of keyframes with host-defined interpolation.
// Every mutation takes a Recorder; pass Untracked for scratch curves only.
type Curve interface {
	ID() model.CurveID
	NumKeys() int
	Key(i int) model.Keyframe
	Time(i int) float64
	Value(i int) float64

	// Find returns the index of the key at exactly time t.
	Find(t float64) (int, bool)

	// Evaluate returns the curve value at an arbitrary time.
	Evaluate(t float64) float64

	IsWeighted() bool
	SetWeighted(weighted bool, rec Recorder)

	// AddKey inserts a key and returns its index. A key already at t is
	// overwritten.
	AddKey(t, v float64, in, out model.TangentType, rec Recorder) int
	Remove(i int, rec Recorder)
	SetTangent(i int, x, y float64, in bool, rec Recorder)
	SetTangentsLocked(i int, locked bool, rec Recorder)
	SetWeightsLocked(i int, locked bool, rec Recorder)

	// NewScratch returns an empty curve of the same kind and weightedness.
	// Scratch curves have no identity and are never visible to a scene.
	NewScratch() Curve
}

// Patchable is implemented by curves that can apply journal edits verbatim,
// bypassing automatic tangent recalculation.
type Patchable interface {
	PutKey(k model.Keyframe)
	DeleteKey(t float64) bool
	PatchWeighted(weighted bool)
}

// Recorder receives every mutation applied to a live curve.
type Recorder interface {
	Record(e model.Edit)
}

type untracked struct{}

func (untracked) Record(model.Edit) {}

// Untracked discards edits. It is the explicit mode for scratch curves.
var Untracked Recorder = untracked{}

func record(rec Recorder, e model.Edit) {
	if rec != nil {
		rec.Record(e)
	}
}

// ApplyTangents writes k's tangent handles and lock flags onto key i of c.
// Locks are cleared first since locked tangents resist being set one side at
// a time.
func ApplyTangents(c Curve, i int, k model.Keyframe, rec Recorder) {
	c.SetTangentsLocked(i, false, rec)
	c.SetWeightsLocked(i, false, rec)
	c.SetTangent(i, k.InX, k.InY, true, rec)
	c.SetTangent(i, k.OutX, k.OutY, false, rec)
	c.SetTangentsLocked(i, k.TangentsLocked, rec)
	c.SetWeightsLocked(i, k.WeightLocked, rec)
}

// CopyKey copies key i of src into dst with its value, tangent types,
// handles and locks, and returns the index in dst.
func CopyKey(src Curve, i int, dst Curve, rec Recorder) int {
	k := src.Key(i)
	j := dst.AddKey(k.Time, k.Value, k.InType, k.OutType, rec)
	ApplyTangents(dst, j, k, rec)
	return j
}

// RestoreTangents re-applies handles and locks from src onto every key of dst
// that shares a time with src. Insertions can trigger automatic tangent
// recalculation on neighbours, so this runs after all keys are in place.
func RestoreTangents(src, dst Curve, rec Recorder) {
	for i := 0; i < src.NumKeys(); i++ {
		if j, ok := dst.Find(src.Time(i)); ok {
			ApplyTangents(dst, j, src.Key(i), rec)
		}
	}
}

// Keys returns a copy of all keys of c.
func Keys(c Curve) []model.Keyframe {
	keys := make([]model.Keyframe, c.NumKeys())
	for i := range keys {
		keys[i] = c.Key(i)
	}
	return keys
}
