// Package reducer removes redundant keys from animation curves while keeping
// the reconstructed curve within a deviation tolerance of the original.
package reducer

import (
	"fmt"
	"math"
)

// DefaultTolerance is the deviation used when none is given.
const DefaultTolerance = 0.5

// RepairBand is the absolute band used by the boundary repair pass to decide
// whether two values are the same. It does not depend on the tolerance.
const RepairBand = 0.0009

// Window restricts reduction to keys whose time falls in [Start, End].
// A nil bound is open.
type Window struct {
	Start *int `json:"start,omitempty"`
	End   *int `json:"end,omitempty"`
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t float64) bool {
	if w.Start != nil && t < float64(*w.Start) {
		return false
	}
	if w.End != nil && t > float64(*w.End) {
		return false
	}
	return true
}

// Options configures a reduction.
type Options struct {
	Tolerance float64 `json:"tolerance"`
	Window    Window  `json:"window"`
	PreBake   bool    `json:"pre_bake"`

	// Metrics receives the reduction counters. Nil uses the global meter
	// provider.
	Metrics *Metrics `json:"-"`
}

// DefaultOptions returns the default reduction options.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance}
}

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if math.IsNaN(o.Tolerance) || o.Tolerance < 0 {
		return fmt.Errorf("tolerance must be a non-negative number, got %v", o.Tolerance)
	}
	return nil
}

// Skip reasons reported in Result.Skipped.
const (
	SkipTooFewKeys       = "curve has two keys or fewer"
	SkipTooFewCandidates = "two keys or fewer inside the window"
)

// Result summarises the reduction of one curve.
type Result struct {
	Curve      string `json:"curve"`
	KeysBefore int    `json:"keys_before"`
	KeysAfter  int    `json:"keys_after"`
	Candidates int    `json:"candidates"`
	Selected   int    `json:"selected"`
	Repaired   int    `json:"repaired"`
	Skipped    string `json:"skipped,omitempty"`
}
