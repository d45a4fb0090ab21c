// Package snapshot caches full curve keyframe state so it can be reinstated
// later, e.g. between successive reductions while a tolerance is tweaked.
package snapshot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

var (
	// ErrNoTargets is returned by Capture when no curves are given.
	ErrNoTargets = errors.New("no curves specified")
	// ErrNothingCaptured is returned by Restore when the store is empty.
	ErrNothingCaptured = errors.New("nothing captured")
)

// ResolveError reports a snapshot whose target curve no longer resolves.
type ResolveError struct {
	ID  model.CurveID
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("could not find attribute %s: %v", e.ID, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Store holds the most recent capture. The zero value is an empty store.
type Store struct {
	curves []model.CachedCurve
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Len returns the number of cached curves.
func (s *Store) Len() int {
	return len(s.curves)
}

// Snapshots returns the cached curves in capture order.
func (s *Store) Snapshots() []model.CachedCurve {
	return s.curves
}

// Load replaces the store contents, e.g. from persisted state.
func (s *Store) Load(curves []model.CachedCurve) {
	s.curves = curves
}

// Capture replaces the store contents with the current state of curves.
// Curves without keys are skipped. An empty list leaves the store unchanged.
func (s *Store) Capture(curves []anim.Curve) error {
	if len(curves) == 0 {
		return ErrNoTargets
	}
	cached := make([]model.CachedCurve, 0, len(curves))
	for _, c := range curves {
		if c.NumKeys() == 0 {
			continue
		}
		cached = append(cached, model.CachedCurve{
			ID:       c.ID(),
			Weighted: c.IsWeighted(),
			Keys:     anim.Keys(c),
		})
	}
	s.curves = cached
	slog.Default().Debug("captured curves", "component", "snapshot", "count", len(cached))
	return nil
}

// Restore reinstates every cached curve in order through rec. It stops at
// the first curve that fails to resolve; curves restored before it stay
// restored. The store is not cleared, so Restore may be repeated.
func (s *Store) Restore(resolve anim.Resolver, rec anim.Recorder) error {
	if len(s.curves) == 0 {
		return ErrNothingCaptured
	}
	for _, cc := range s.curves {
		c, err := resolve(cc.ID)
		if err != nil {
			return &ResolveError{ID: cc.ID, Err: err}
		}
		restoreCurve(c, cc, rec)
	}
	return nil
}

func restoreCurve(c anim.Curve, cc model.CachedCurve, rec anim.Recorder) {
	c.SetWeighted(cc.Weighted, rec)
	for i := c.NumKeys() - 1; i >= 0; i-- {
		c.Remove(i, rec)
	}
	for _, k := range cc.Keys {
		c.AddKey(k.Time, k.Value, k.InType, k.OutType, rec)
	}
	for i, k := range cc.Keys {
		anim.ApplyTangents(c, i, k, rec)
	}
}
